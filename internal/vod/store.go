// SPDX-License-Identifier: MIT

package vod

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// Store owns the cache directories. Files appear atomically: a reader never
// sees a partially written video or thumbnail.
type Store struct {
	videosDir string
	thumbsDir string
}

// NewStore creates the cache directories if needed.
func NewStore(videosDir, thumbsDir string) (*Store, error) {
	for _, dir := range []string{videosDir, thumbsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
		}
	}
	return &Store{videosDir: videosDir, thumbsDir: thumbsDir}, nil
}

// VideosDir returns the video cache directory.
func (s *Store) VideosDir() string { return s.videosDir }

// ThumbsDir returns the thumbnail cache directory.
func (s *Store) ThumbsDir() string { return s.thumbsDir }

// VideoPath returns the on-disk path for a cache key.
func (s *Store) VideoPath(key string) string {
	return filepath.Join(s.videosDir, key+".mp4")
}

// ThumbPath returns the on-disk path for a cache key's thumbnail.
func (s *Store) ThumbPath(key string) string {
	return filepath.Join(s.thumbsDir, key+"_thumb.png")
}

// HasVideo reports whether a finished video file exists for key.
func (s *Store) HasVideo(key string) bool {
	info, err := os.Stat(s.VideoPath(key))
	return err == nil && info.Mode().IsRegular()
}

// ThumbAge returns the age of a cached thumbnail, or false if none exists.
func (s *Store) ThumbAge(key string) (time.Duration, bool) {
	info, err := os.Stat(s.ThumbPath(key))
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

// WriteVideo streams r into the cache under key. The file only becomes
// visible once fully written and synced; renameio removes the temp file when
// the copy fails midway.
func (s *Store) WriteVideo(key string, r io.Reader) (int64, error) {
	pending, err := renameio.NewPendingFile(s.VideoPath(key))
	if err != nil {
		return 0, fmt.Errorf("create pending video file: %w", err)
	}
	defer pending.Cleanup()

	n, err := io.Copy(pending, r)
	if err != nil {
		return n, fmt.Errorf("copy video body: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return n, fmt.Errorf("commit video file: %w", err)
	}
	return n, nil
}

// WriteThumb atomically writes a rendered thumbnail.
func (s *Store) WriteThumb(key string, data []byte) error {
	if err := renameio.WriteFile(s.ThumbPath(key), data, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}
