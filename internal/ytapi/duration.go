// SPDX-License-Identifier: MIT

package ytapi

import (
	"strconv"
	"strings"
)

// DurationSeconds converts an ISO 8601 duration like "PT4M13S" to whole
// seconds. Unparseable input yields 0.
func DurationSeconds(iso string) int {
	s, ok := strings.CutPrefix(iso, "P")
	if !ok {
		return 0
	}
	datePart := s
	timePart := ""
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}

	total := 0
	for _, part := range []struct {
		s     string
		units map[byte]int
	}{
		{datePart, map[byte]int{'D': 86400, 'W': 604800}},
		{timePart, map[byte]int{'H': 3600, 'M': 60, 'S': 1}},
	} {
		n := 0
		for i := 0; i < len(part.s); i++ {
			c := part.s[i]
			if c >= '0' && c <= '9' {
				n = n*10 + int(c-'0')
				continue
			}
			mult, ok := part.units[c]
			if !ok {
				return 0
			}
			total += n * mult
			n = 0
		}
	}
	return total
}

// FormatDuration renders seconds as the "M:SS" / "H:MM:SS" display form the
// legacy portal showed next to each entry.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return strconv.Itoa(h) + ":" + pad2(m) + ":" + pad2(s)
	}
	return strconv.Itoa(m) + ":" + pad2(s)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
