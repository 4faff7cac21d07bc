// SPDX-License-Identifier: MIT

// Package vod implements the on-demand video cache: stream resolution,
// coordinated downloads, thumbnail rendering and retention.
package vod

import (
	"crypto/md5"
	"encoding/hex"
)

// CacheKey derives the on-disk name for a video ID. The truncated digest is
// a compatibility contract: devices bookmark /static/videos/<key>.mp4 URLs,
// so the derivation must stay stable across releases.
func CacheKey(videoID string) string {
	sum := md5.Sum([]byte(videoID))
	return hex.EncodeToString(sum[:])[:12]
}
