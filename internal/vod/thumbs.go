// SPDX-License-Identifier: MIT

package vod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"time"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	"retrogate/internal/fetch"
	"retrogate/internal/metrics"
)

// Thumbnail geometry of the device gallery. Sources are scaled to fit and
// letterboxed onto the gallery background color.
const (
	thumbWidth  = 320
	thumbHeight = 240
)

var thumbBackground = color.RGBA{R: 0xef, G: 0xef, B: 0xef, A: 0xff}

// Thumbnailer renders and caches device-sized thumbnails.
type Thumbnailer struct {
	store    *Store
	fetch    *fetch.Client
	lifetime time.Duration
}

// NewThumbnailer wires a Thumbnailer; lifetime controls when a cached
// thumbnail is considered stale and re-rendered.
func NewThumbnailer(store *Store, fc *fetch.Client, lifetime time.Duration) *Thumbnailer {
	return &Thumbnailer{store: store, fetch: fc, lifetime: lifetime}
}

// Ensure renders the thumbnail for videoID from srcURL unless a fresh one is
// already cached, and returns the cache key the serving route uses.
func (t *Thumbnailer) Ensure(ctx context.Context, videoID, srcURL string) (string, error) {
	key := CacheKey(videoID)
	if age, ok := t.store.ThumbAge(key); ok && age < t.lifetime {
		metrics.Thumbnails.WithLabelValues("cached").Inc()
		return key, nil
	}

	res, err := t.fetch.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	})
	if err != nil {
		metrics.Thumbnails.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetch thumbnail for %s: %w", videoID, err)
	}
	defer func() { _ = res.Body.Close() }()

	src, _, err := image.Decode(res.Body)
	if err != nil {
		metrics.Thumbnails.WithLabelValues("error").Inc()
		return "", fmt.Errorf("decode thumbnail for %s: %w", videoID, err)
	}

	out, err := encodePNG(Letterbox(src))
	if err != nil {
		metrics.Thumbnails.WithLabelValues("error").Inc()
		return "", fmt.Errorf("encode thumbnail for %s: %w", videoID, err)
	}
	if err := t.store.WriteThumb(key, out); err != nil {
		metrics.Thumbnails.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.Thumbnails.WithLabelValues("rendered").Inc()
	return key, nil
}

// Letterbox scales src to fit the gallery geometry, preserving aspect ratio,
// centered on the background color.
func Letterbox(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(thumbBackground), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}
	scaleW := float64(thumbWidth) / float64(sb.Dx())
	scaleH := float64(thumbHeight) / float64(sb.Dy())
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	x := (thumbWidth - w) / 2
	y := (thumbHeight - h) / 2

	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
