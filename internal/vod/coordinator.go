// SPDX-License-Identifier: MIT

package vod

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"retrogate/internal/fetch"
	"retrogate/internal/innertube"
	"retrogate/internal/log"
	"retrogate/internal/metrics"
)

// downloadTimeout bounds one whole cache fill, manifest resolution included.
const downloadTimeout = 10 * time.Minute

// Manifests resolves stream manifests for video IDs.
type Manifests interface {
	Player(ctx context.Context, videoID string) (*innertube.StreamingData, error)
}

// Coordinator fills the video cache. Concurrent requests for the same video
// share one download; the disk is the ground truth, the singleflight group
// only deduplicates work in flight.
type Coordinator struct {
	store     *Store
	manifests Manifests
	download  *fetch.Client
	group     singleflight.Group
}

// NewCoordinator wires a Coordinator. download needs a client with a
// generous per-attempt timeout; video bodies take minutes on slow links.
func NewCoordinator(store *Store, manifests Manifests, download *fetch.Client) *Coordinator {
	return &Coordinator{store: store, manifests: manifests, download: download}
}

// Ensure returns the cached file path for videoID, downloading it first if
// needed. Waiting callers whose context expires detach without cancelling
// the shared download.
func (c *Coordinator) Ensure(ctx context.Context, videoID string) (string, error) {
	key := CacheKey(videoID)
	if c.store.HasVideo(key) {
		metrics.RecordCacheLookup(true)
		return c.store.VideoPath(key), nil
	}
	metrics.RecordCacheLookup(false)

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached from the requesting context: the download continues for
		// whoever asks next even if the first requester goes away.
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), downloadTimeout)
		defer cancel()
		return c.fill(dctx, key, videoID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			metrics.Downloads.WithLabelValues("error").Inc()
			return "", res.Err
		}
		if res.Shared {
			metrics.DownloadsShared.Inc()
		} else {
			metrics.Downloads.WithLabelValues("ok").Inc()
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Coordinator) fill(ctx context.Context, key, videoID string) (string, error) {
	// A racing request may have finished the file between the cache check
	// and the singleflight call.
	if c.store.HasVideo(key) {
		return c.store.VideoPath(key), nil
	}

	logger := log.WithComponentFromContext(ctx, "vod")
	start := time.Now()

	sd, err := c.manifests.Player(ctx, videoID)
	if err != nil {
		return "", err
	}
	streamURL, err := SelectStream(sd)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", videoID, err)
	}

	res, err := c.download.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	})
	if err != nil {
		return "", fmt.Errorf("download video %s: %w", videoID, err)
	}
	defer func() { _ = res.Body.Close() }()

	n, err := c.store.WriteVideo(key, res.Body)
	if err != nil {
		return "", fmt.Errorf("cache video %s: %w", videoID, err)
	}

	logger.Info().
		Str("video_id", videoID).
		Str("key", key).
		Int64("bytes", n).
		Dur("took", time.Since(start)).
		Msg("video cached")
	return c.store.VideoPath(key), nil
}
