// SPDX-License-Identifier: MIT

package atom

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedMarshal(t *testing.T) {
	f := NewFeed()
	f.ID = "tag:feed"
	f.Updated = "2026-08-29T12:00:00Z"
	f.Title = Text{Type: "text", Value: "Trending"}
	f.TotalResults = 1
	f.StartIndex = 1
	f.ItemsPerPage = 1
	f.Entries = []Entry{{
		ID:        "tag:video:abc",
		Published: "2026-08-01T00:00:00Z",
		Updated:   "2026-08-01T00:00:00Z",
		Title:     Text{Type: "text", Value: "A <video>"},
		Author:    Author{Name: "chan"},
		Categories: []Category{
			{Scheme: CategoryScheme, Term: "Music"},
		},
		Group: MediaGroup{
			Title:    "A <video>",
			Duration: DurationEl{Seconds: 253},
			VideoID:  "abc",
			Contents: []MediaContent{
				{URL: "http://gw/youtube/download/abc?format=mp4", Type: "video/mp4", Medium: "video", Duration: 253},
			},
			Thumbnails: []MediaThumb{
				{URL: "http://gw/static/thumbnails/x_thumb.png", Width: 320, Height: 240},
			},
		},
		Statistics: &Stats{ViewCount: 1234},
	}}

	out, err := xml.MarshalIndent(f, "", "  ")
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, s, `xmlns:media="http://search.yahoo.com/mrss/"`)
	assert.Contains(t, s, `<openSearch:totalResults>1</openSearch:totalResults>`)
	assert.Contains(t, s, `<yt:duration seconds="253">`)
	assert.Contains(t, s, `<yt:statistics viewCount="1234">`)
	assert.Contains(t, s, `A &lt;video&gt;`)
	assert.Contains(t, s, `format=mp4`)
}

func TestUserEntryMarshal(t *testing.T) {
	u := NewUserEntry()
	u.ID = "tag:user:somebody"
	u.Title = Text{Type: "text", Value: "Somebody"}
	u.Username = "somebody"
	u.Statistics = &UserStats{SubscriberCount: 42, ViewCount: 9000}

	out, err := xml.Marshal(u)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<yt:username>somebody</yt:username>`)
	assert.Contains(t, s, `subscriberCount="42"`)
}

func TestCategoriesDoc(t *testing.T) {
	out, err := xml.Marshal(Categories())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<app:categories`)
	assert.Contains(t, s, `fixed="yes"`)
	assert.Contains(t, s, `label="Film &amp; Animation"`)
	assert.Contains(t, s, `<yt:assignable>`)
}

func TestCategoryTerm(t *testing.T) {
	assert.Equal(t, "Music", CategoryTerm("10"))
	assert.Equal(t, "Tech", CategoryTerm("28"))
	assert.Equal(t, "Entertainment", CategoryTerm("999"))
	assert.Equal(t, "Entertainment", CategoryTerm(""))
}
