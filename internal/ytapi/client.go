// SPDX-License-Identifier: MIT

// Package ytapi is a minimal YouTube Data API v3 client covering the calls
// the legacy feed endpoints need.
package ytapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"retrogate/internal/fetch"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// MaxResults caps page sizes the way the upstream API does.
const MaxResults = 25

// Thumbnail is one rendition of a video or channel thumbnail.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Thumbnails maps rendition name (default, medium, high, ...) to Thumbnail.
type Thumbnails map[string]Thumbnail

// BestURL picks the rendition the legacy widgets render best: medium first,
// then high, then default, then whatever exists.
func (t Thumbnails) BestURL() string {
	for _, name := range []string{"medium", "high", "default"} {
		if th, ok := t[name]; ok && th.URL != "" {
			return th.URL
		}
	}
	for _, th := range t {
		if th.URL != "" {
			return th.URL
		}
	}
	return ""
}

// Snippet is the metadata block shared by videos and channels.
type Snippet struct {
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CategoryID   string     `json:"categoryId"`
	Country      string     `json:"country"`
	Tags         []string   `json:"tags"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

// ContentDetails carries the video duration in ISO 8601 form.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// Statistics carries the counters as the API returns them: decimal strings.
type Statistics struct {
	ViewCount       string `json:"viewCount"`
	LikeCount       string `json:"likeCount"`
	CommentCount    string `json:"commentCount"`
	SubscriberCount string `json:"subscriberCount"`
}

// Status carries upload visibility flags.
type Status struct {
	PrivacyStatus string `json:"privacyStatus"`
	Embeddable    bool   `json:"embeddable"`
}

// Video is one videos.list result item.
type Video struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	ContentDetails ContentDetails `json:"contentDetails"`
	Statistics     Statistics     `json:"statistics"`
	Status         Status         `json:"status"`
}

// Channel is an assembled channels.list result.
type Channel struct {
	ID              string
	Snippet         Snippet
	Statistics      Statistics
	UploadsPlaylist string
}

type channelItem struct {
	ID             string     `json:"id"`
	Snippet        Snippet    `json:"snippet"`
	Statistics     Statistics `json:"statistics"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type searchItem struct {
	ID struct {
		VideoID   string `json:"videoId"`
		ChannelID string `json:"channelId"`
	} `json:"id"`
	Snippet Snippet `json:"snippet"`
}

type playlistItem struct {
	Snippet struct {
		ResourceID struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type listResponse[T any] struct {
	Items    []T `json:"items"`
	PageInfo struct {
		TotalResults   int `json:"totalResults"`
		ResultsPerPage int `json:"resultsPerPage"`
	} `json:"pageInfo"`
}

// Client calls the YouTube Data API v3.
type Client struct {
	base  string
	key   string
	fetch *fetch.Client
}

// New returns a Client. An empty baseURL selects the public endpoint.
func New(baseURL, apiKey string, fc *fetch.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{base: baseURL, key: apiKey, fetch: fc}
}

func (c *Client) get(ctx context.Context, resource string, q url.Values, out any) error {
	q.Set("key", c.key)
	if err := c.fetch.GetJSON(ctx, c.base+"/"+resource+"?"+q.Encode(), nil, out); err != nil {
		return fmt.Errorf("youtube %s: %w", resource, err)
	}
	return nil
}

func clampMax(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxResults:
		return MaxResults
	default:
		return n
	}
}

// SearchVideoIDs runs a video search and returns result IDs in rank order.
// order accepts the legacy names (published, viewCount, rating, relevance).
func (c *Client) SearchVideoIDs(ctx context.Context, query, order string, max int) ([]string, error) {
	apiOrder := "relevance"
	switch order {
	case "published":
		apiOrder = "date"
	case "viewCount", "rating":
		apiOrder = order
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query)
	q.Set("type", "video")
	q.Set("maxResults", strconv.Itoa(clampMax(max)))
	q.Set("order", apiOrder)
	q.Set("safeSearch", "none")

	var resp listResponse[searchItem]
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

// SearchChannelID resolves a channel name or handle to a channel ID.
func (c *Client) SearchChannelID(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query)
	q.Set("type", "channel")
	q.Set("maxResults", "1")

	var resp listResponse[searchItem]
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return "", err
	}
	for _, it := range resp.Items {
		if it.ID.ChannelID != "" {
			return it.ID.ChannelID, nil
		}
		if it.Snippet.ChannelID != "" {
			return it.Snippet.ChannelID, nil
		}
	}
	return "", fmt.Errorf("channel %q: %w", query, fetch.ErrNotFound)
}

// Videos fetches full metadata for up to MaxResults video IDs, preserving
// request order where the API does.
func (c *Client) Videos(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxResults {
		ids = ids[:MaxResults]
	}
	q := url.Values{}
	q.Set("part", "snippet,contentDetails,statistics,status")
	q.Set("id", strings.Join(ids, ","))

	var resp listResponse[Video]
	if err := c.get(ctx, "videos", q, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// MostPopular fetches the mostPopular chart for a region.
func (c *Client) MostPopular(ctx context.Context, regionCode string, max int) ([]Video, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails,statistics,status")
	q.Set("chart", "mostPopular")
	q.Set("regionCode", regionCode)
	q.Set("maxResults", strconv.Itoa(clampMax(max)))

	var resp listResponse[Video]
	if err := c.get(ctx, "videos", q, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ChannelByID fetches channel metadata, statistics and the uploads playlist.
func (c *Client) ChannelByID(ctx context.Context, id string) (*Channel, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics,contentDetails")
	q.Set("id", id)

	var resp listResponse[channelItem]
	if err := c.get(ctx, "channels", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", id, fetch.ErrNotFound)
	}
	it := resp.Items[0]
	return &Channel{
		ID:              it.ID,
		Snippet:         it.Snippet,
		Statistics:      it.Statistics,
		UploadsPlaylist: it.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// PlaylistVideoIDs lists the first max video IDs of a playlist.
func (c *Client) PlaylistVideoIDs(ctx context.Context, playlistID string, max int) ([]string, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("playlistId", playlistID)
	q.Set("maxResults", strconv.Itoa(clampMax(max)))

	var resp listResponse[playlistItem]
	if err := c.get(ctx, "playlistItems", q, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Snippet.ResourceID.VideoID != "" {
			ids = append(ids, it.Snippet.ResourceID.VideoID)
		}
	}
	return ids, nil
}
