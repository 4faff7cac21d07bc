// SPDX-License-Identifier: MIT

package feeds

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"retrogate/internal/log"
	"retrogate/internal/metrics"
	"retrogate/internal/ytapi"
)

// Fan-out shapes per feed kind. The wide pool serves the interactive
// endpoints (search, trending); the narrow one the background-ish ones
// (uploads, related).
const (
	widePoolSize   = 5
	narrowPoolSize = 3
	wideDeadline   = 300 * time.Second
	narrowDeadline = 180 * time.Second
)

// Thumbnails caches a thumbnail and returns its key.
type Thumbnails interface {
	Ensure(ctx context.Context, videoID, srcURL string) (string, error)
}

// Item is one enriched feed entry: upstream metadata plus locally served
// locators.
type Item struct {
	Video      ytapi.Video
	MP4URL     string
	ThreeGPURL string
	ThumbURL   string
}

// Enricher turns upstream video metadata into feed items whose media and
// thumbnail locators point back at this gateway.
type Enricher struct {
	thumbs  Thumbnails
	baseURL string
}

// NewEnricher wires an Enricher. baseURL is the externally reachable root
// of this gateway, without a trailing slash.
func NewEnricher(thumbs Thumbnails, baseURL string) *Enricher {
	return &Enricher{thumbs: thumbs, baseURL: baseURL}
}

// EnrichWide processes videos with the wide pool shape.
func (e *Enricher) EnrichWide(ctx context.Context, videos []ytapi.Video) []Item {
	return e.enrich(ctx, videos, widePoolSize, wideDeadline)
}

// EnrichNarrow processes videos with the narrow pool shape.
func (e *Enricher) EnrichNarrow(ctx context.Context, videos []ytapi.Video) []Item {
	return e.enrich(ctx, videos, narrowPoolSize, narrowDeadline)
}

// enrich fans thumbnail work out over a bounded pool and reassembles the
// results in upstream rank order. A video whose thumbnail cannot be cached
// keeps the upstream locator; only videos that miss the deadline entirely
// are dropped.
func (e *Enricher) enrich(ctx context.Context, videos []ytapi.Video, limit int, deadline time.Duration) []Item {
	if len(videos) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	results := make([]*Item, len(videos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range videos {
		i, v := i, v
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			item := e.buildItem(gctx, v)
			results[i] = &item
			return nil
		})
	}
	_ = g.Wait()

	items := make([]Item, 0, len(videos))
	for i, it := range results {
		if it == nil {
			metrics.FeedItemsDropped.Inc()
			lg := log.WithComponentFromContext(ctx, "feeds")
			lg.Warn().
				Str("video_id", videos[i].ID).
				Msg("feed item dropped, deadline exceeded")
			continue
		}
		items = append(items, *it)
	}
	return items
}

func (e *Enricher) buildItem(ctx context.Context, v ytapi.Video) Item {
	item := Item{
		Video:      v,
		MP4URL:     fmt.Sprintf("%s/youtube/download/%s?format=mp4", e.baseURL, v.ID),
		ThreeGPURL: fmt.Sprintf("%s/youtube/download/%s?format=3gp", e.baseURL, v.ID),
	}

	src := v.Snippet.Thumbnails.BestURL()
	if src == "" {
		return item
	}
	key, err := e.thumbs.Ensure(ctx, v.ID, src)
	if err != nil {
		lg := log.WithComponentFromContext(ctx, "feeds")
		lg.Warn().
			Str("video_id", v.ID).
			Err(err).
			Msg("thumbnail caching failed, keeping upstream locator")
		item.ThumbURL = src
		return item
	}
	item.ThumbURL = fmt.Sprintf("%s/static/thumbnails/%s_thumb.png", e.baseURL, key)
	return item
}
