// SPDX-License-Identifier: MIT

package vod

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"retrogate/internal/log"
	"retrogate/internal/metrics"
)

// Sweeper deletes cache files older than the configured lifetime. Age is
// taken from mtime, which the store refreshes on every atomic replace.
type Sweeper struct {
	store    *Store
	lifetime time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewSweeper wires a Sweeper over the store's directories.
func NewSweeper(store *Store, lifetime, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, lifetime: lifetime, interval: interval, now: time.Now}
}

// Run sweeps on a fixed interval until ctx is cancelled. The initial sweep
// is the caller's job (done synchronously at startup).
func (s *Sweeper) Run(ctx context.Context) {
	logger := log.WithComponent("sweeper")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep deletes expired files from both cache directories and returns the
// number removed.
func (s *Sweeper) Sweep() int {
	total := 0
	for _, dir := range []string{s.store.VideosDir(), s.store.ThumbsDir()} {
		total += s.sweepDir(dir)
	}
	return total
}

func (s *Sweeper) sweepDir(dir string) int {
	logger := log.WithComponent("sweeper")

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("cannot read cache dir")
		return 0
	}

	removed := 0
	cutoff := s.now().Add(-s.lifetime)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Deleted only when strictly older than the lifetime; a file aged
		// exactly lifetime stays for one more cycle.
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("cannot delete expired file")
			continue
		}
		metrics.SweeperDeletions.WithLabelValues(filepath.Base(dir)).Inc()
		removed++
	}
	if removed > 0 {
		logger.Info().Str("dir", dir).Int("removed", removed).Msg("expired cache files deleted")
	}
	return removed
}
