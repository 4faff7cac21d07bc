// SPDX-License-Identifier: MIT

package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"retrogate/internal/atom"
	"retrogate/internal/log"
	"retrogate/internal/metrics"
	"retrogate/internal/vod"
	"retrogate/internal/ytapi"
)

// VideoAPI is the metadata upstream the feed endpoints consume.
type VideoAPI interface {
	SearchVideoIDs(ctx context.Context, query, order string, max int) ([]string, error)
	SearchChannelID(ctx context.Context, query string) (string, error)
	Videos(ctx context.Context, ids []string) ([]ytapi.Video, error)
	MostPopular(ctx context.Context, regionCode string, max int) ([]ytapi.Video, error)
	ChannelByID(ctx context.Context, id string) (*ytapi.Channel, error)
	PlaylistVideoIDs(ctx context.Context, playlistID string, max int) ([]string, error)
}

// Downloads fills the video cache on demand.
type Downloads interface {
	Ensure(ctx context.Context, videoID string) (string, error)
}

// Handler serves the video portal endpoints.
type Handler struct {
	yt        VideoAPI
	enrich    *Enricher
	devices   *Registry
	downloads Downloads
	store     *vod.Store
	deviceKey string
	now       func() time.Time
}

// NewHandler wires a Handler. An empty deviceKey falls back to the stock key.
func NewHandler(yt VideoAPI, enrich *Enricher, devices *Registry, downloads Downloads, store *vod.Store, deviceKey string) *Handler {
	if deviceKey == "" {
		deviceKey = DeviceKey
	}
	return &Handler{
		yt:        yt,
		enrich:    enrich,
		devices:   devices,
		downloads: downloads,
		store:     store,
		deviceKey: deviceKey,
		now:       time.Now,
	}
}

// Mount registers the portal routes.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/registerDevice", h.RegisterDevice)
	r.Post("/youtube/accounts/registerDevice", h.RegisterDevice)
	r.Get("/schemas/2007/categories.cat", h.Categories)
	r.Get("/static/thumbnails/{filename}", h.Thumbnail)
	r.Get("/static/videos/{filename}", h.VideoFile)
	r.Get("/feeds/api/videos", h.Search)
	r.Get("/feeds/api/videos/{videoID}/related", h.Related)
	r.Get("/feeds/api/users/{username}", h.User)
	r.Get("/feeds/api/users/{username}/uploads", h.Uploads)
	r.Get("/feeds/api/standardfeeds/{region}/most_viewed", h.Trending)
	r.Get("/youtube/download/{videoID}", h.Download)
}

// RegisterDevice hands out a device ID and the static key. The response is
// the exact key=value plaintext the firmware's parser expects.
func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.devices.Register(r.UserAgent(), r.RemoteAddr)
	if err != nil {
		lg := log.FromContext(r.Context())
		lg.Error().Err(err).Msg("device registration failed")
		http.Error(w, "Error: Registration failed", http.StatusInternalServerError)
		return
	}
	metrics.DeviceRegistrations.Inc()

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "DeviceId=%s\nDeviceKey=%s", device.ID, h.deviceKey)
}

// Categories serves the fixed category scheme.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeAtom(r.Context(), w, atom.Categories())
}

// Thumbnail serves a cached thumbnail. The firmware sometimes asks without
// the extension.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if !strings.HasSuffix(name, ".png") {
		name += ".png"
	}
	if name != filepath.Base(name) {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.store.ThumbsDir(), name))
}

// VideoFile serves a cached video by file name; bookmarked device URLs hit
// this route directly.
func (h *Handler) VideoFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name != filepath.Base(name) {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.store.VideosDir(), name))
}

// Search serves /feeds/api/videos?vq=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("vq")
	startIndex := intParam(r, "start-index", 1)
	maxResults := intParam(r, "max-results", 10)
	orderby := r.URL.Query().Get("orderby")
	title := "Videos matching: " + query

	if query == "" {
		writeAtom(ctx, w, h.emptyFeed(title, startIndex))
		return
	}

	ids, err := h.yt.SearchVideoIDs(ctx, query, orderby, maxResults)
	if err != nil {
		h.feedError(ctx, w, "search", err, title, startIndex)
		return
	}
	videos, err := h.yt.Videos(ctx, ids)
	if err != nil {
		h.feedError(ctx, w, "search", err, title, startIndex)
		return
	}

	items := h.enrich.EnrichWide(ctx, videos)
	writeAtom(ctx, w, h.buildFeed(title, startIndex, items))
}

// Trending serves the regional most_viewed standard feed.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	region := chi.URLParam(r, "region")
	startIndex := intParam(r, "start-index", 1)
	maxResults := intParam(r, "max-results", 10)

	videos, err := h.yt.MostPopular(ctx, region, maxResults)
	if err != nil {
		h.feedError(ctx, w, "trending", err, "Trending", startIndex)
		return
	}

	items := h.enrich.EnrichWide(ctx, videos)
	writeAtom(ctx, w, h.buildFeed("Trending", startIndex, items))
}

// Related serves videos related to one video. The legacy relatedness API is
// gone upstream, so relatedness is approximated by searching for the source
// video's title.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoID")
	startIndex := intParam(r, "start-index", 1)
	maxResults := intParam(r, "max-results", 8)
	title := "Related to " + videoID

	source, err := h.yt.Videos(ctx, []string{videoID})
	if err != nil || len(source) == 0 {
		h.feedError(ctx, w, "related", err, title, startIndex)
		return
	}
	title = "Related to " + source[0].Snippet.Title

	ids, err := h.yt.SearchVideoIDs(ctx, source[0].Snippet.Title, "relevance", maxResults)
	if err != nil {
		h.feedError(ctx, w, "related", err, title, startIndex)
		return
	}
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != videoID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		writeAtom(ctx, w, h.emptyFeed(title, startIndex))
		return
	}

	videos, err := h.yt.Videos(ctx, filtered)
	if err != nil {
		h.feedError(ctx, w, "related", err, title, startIndex)
		return
	}

	items := h.enrich.EnrichNarrow(ctx, videos)
	writeAtom(ctx, w, h.buildFeed(title, startIndex, items))
}

// User serves a channel profile as the legacy user entry document.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	channel, err := h.lookupChannel(ctx, username)
	if err != nil {
		lg := log.FromContext(ctx)
		lg.Warn().Str("username", username).Err(err).Msg("user lookup failed")
		entry := atom.NewUserEntry()
		entry.ID = "tag:gateway,2007:user:" + username
		entry.Published = h.now().UTC().Format(time.RFC3339)
		entry.Updated = entry.Published
		entry.Title = atom.Text{Type: "text", Value: username}
		entry.Summary = atom.Text{Type: "text", Value: "User not found"}
		entry.Username = username
		w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		writeAtomBody(ctx, w, entry)
		return
	}

	entry := atom.NewUserEntry()
	entry.ID = "tag:gateway,2007:user:" + username
	entry.Published = channel.Snippet.PublishedAt
	entry.Updated = h.now().UTC().Format(time.RFC3339)
	entry.Title = atom.Text{Type: "text", Value: channel.Snippet.Title}
	entry.Summary = atom.Text{Type: "text", Value: channel.Snippet.Description}
	entry.Author = atom.Author{Name: channel.Snippet.Title}
	entry.Username = username
	entry.Location = channel.Snippet.Country
	entry.Statistics = &atom.UserStats{
		SubscriberCount: parseCount(channel.Statistics.SubscriberCount),
		ViewCount:       parseCount(channel.Statistics.ViewCount),
	}
	if url := channel.Snippet.Thumbnails.BestURL(); url != "" {
		entry.Thumbnail = &atom.MediaThumb{URL: url, Width: 320, Height: 240}
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeAtom(ctx, w, entry)
}

// Uploads serves a channel's latest uploads feed.
func (h *Handler) Uploads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	startIndex := intParam(r, "start-index", 1)
	maxResults := intParam(r, "max-results", 3)
	title := "Uploads by " + username

	channel, err := h.lookupChannel(ctx, username)
	if err != nil {
		h.feedError(ctx, w, "uploads", err, title, startIndex)
		return
	}
	ids, err := h.yt.PlaylistVideoIDs(ctx, channel.UploadsPlaylist, maxResults)
	if err != nil {
		h.feedError(ctx, w, "uploads", err, title, startIndex)
		return
	}
	videos, err := h.yt.Videos(ctx, ids)
	if err != nil {
		h.feedError(ctx, w, "uploads", err, title, startIndex)
		return
	}

	items := h.enrich.EnrichNarrow(ctx, videos)
	writeAtom(ctx, w, h.buildFeed(title, startIndex, items))
}

// Download fills the cache for a video if needed and serves the file. The
// 3gp format is an alias: the devices that ask for it play mp4 fine, and
// transcoding is out of scope.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoID")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "mp4"
	}
	if format != "mp4" && format != "3gp" {
		http.Error(w, "Download failed or format not supported", http.StatusNotFound)
		return
	}

	path, err := h.downloads.Ensure(ctx, videoID)
	if err != nil {
		lg := log.FromContext(ctx)
		lg.Error().Str("video_id", videoID).Err(err).Msg("download failed")
		http.Error(w, "Download failed or format not supported", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, path)
}

func (h *Handler) lookupChannel(ctx context.Context, username string) (*ytapi.Channel, error) {
	channelID, err := h.yt.SearchChannelID(ctx, username)
	if err != nil {
		return nil, err
	}
	return h.yt.ChannelByID(ctx, channelID)
}

// feedError logs and degrades to an empty feed; the devices render that as
// "no results" instead of crashing on a non-XML error page.
func (h *Handler) feedError(ctx context.Context, w http.ResponseWriter, op string, err error, title string, startIndex int) {
	lg := log.FromContext(ctx)
	lg.Error().Str("op", op).Err(err).Msg("feed endpoint degraded to empty")
	writeAtom(ctx, w, h.emptyFeed(title, startIndex))
}

func (h *Handler) emptyFeed(title string, startIndex int) *atom.Feed {
	return h.buildFeed(title, startIndex, nil)
}

func (h *Handler) buildFeed(title string, startIndex int, items []Item) *atom.Feed {
	f := atom.NewFeed()
	f.ID = "tag:gateway,2007:videos"
	f.Updated = h.now().UTC().Format(time.RFC3339)
	f.Title = atom.Text{Type: "text", Value: title}
	f.TotalResults = len(items)
	f.StartIndex = startIndex
	f.ItemsPerPage = len(items)

	for _, item := range items {
		f.Entries = append(f.Entries, buildEntry(item))
	}
	return f
}

func buildEntry(item Item) atom.Entry {
	v := item.Video
	seconds := ytapi.DurationSeconds(v.ContentDetails.Duration)

	entry := atom.Entry{
		ID:        "http://gdata.youtube.com/feeds/api/videos/" + v.ID,
		Published: v.Snippet.PublishedAt,
		Updated:   v.Snippet.PublishedAt,
		Title:     atom.Text{Type: "text", Value: v.Snippet.Title},
		Content:   atom.Text{Type: "text", Value: v.Snippet.Description},
		Author:    atom.Author{Name: v.Snippet.ChannelTitle},
		Categories: []atom.Category{
			{Scheme: atom.CategoryScheme, Term: atom.CategoryTerm(v.Snippet.CategoryID)},
		},
		Group: atom.MediaGroup{
			Title:       v.Snippet.Title,
			Description: atom.Text{Type: "plain", Value: v.Snippet.Description},
			Keywords:    strings.Join(v.Snippet.Tags, ", "),
			Duration:    atom.DurationEl{Seconds: seconds},
			VideoID:     v.ID,
			Contents: []atom.MediaContent{
				{URL: item.MP4URL, Type: "video/mp4", Medium: "video", Duration: seconds, Format: 6},
				{URL: item.ThreeGPURL, Type: "video/3gpp", Medium: "video", Duration: seconds, Format: 1},
			},
		},
		Statistics: &atom.Stats{ViewCount: parseCount(v.Statistics.ViewCount)},
	}
	if item.ThumbURL != "" {
		entry.Group.Thumbnails = []atom.MediaThumb{
			{URL: item.ThumbURL, Width: 320, Height: 240},
		}
	}
	return entry
}

func intParam(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	if v > ytapi.MaxResults {
		return ytapi.MaxResults
	}
	return v
}

func parseCount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func writeAtom(ctx context.Context, w http.ResponseWriter, doc any) {
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	writeAtomBody(ctx, w, doc)
}

func writeAtomBody(ctx context.Context, w http.ResponseWriter, doc any) {
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		lg := log.FromContext(ctx)
		lg.Error().Err(err).Msg("encode feed")
	}
}
