// SPDX-License-Identifier: MIT

package vod

import (
	"errors"
	"sort"
	"strings"

	"retrogate/internal/innertube"
)

// ErrNoStream means the manifest held no format the devices can play.
var ErrNoStream = errors.New("no playable stream")

// maxHeight is the tallest rendition worth caching; the target devices have
// 480p-class displays and choke on larger files.
const maxHeight = 480

// SelectStream picks the download URL from a manifest. Progressive mp4 up to
// 480p wins; otherwise the smallest adaptive mp4 within the cap, then the
// smallest adaptive mp4 at all.
func SelectStream(sd *innertube.StreamingData) (string, error) {
	for _, f := range sd.Formats {
		if strings.Contains(f.MimeType, "mp4") && f.Height <= maxHeight && f.URL != "" {
			return f.URL, nil
		}
	}

	var adaptive []innertube.Format
	for _, f := range sd.AdaptiveFormats {
		if strings.HasPrefix(f.MimeType, "video/mp4") && f.URL != "" {
			adaptive = append(adaptive, f)
		}
	}
	sort.SliceStable(adaptive, func(i, j int) bool {
		return adaptive[i].Height < adaptive[j].Height
	})
	for _, f := range adaptive {
		if f.Height <= maxHeight {
			return f.URL, nil
		}
	}
	if len(adaptive) > 0 {
		return adaptive[0].URL, nil
	}
	return "", ErrNoStream
}
