// SPDX-License-Identifier: MIT

package ytapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrogate/internal/fetch"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", fetch.New(fetch.Options{Attempts: 1, Backoff: time.Millisecond}))
}

func TestBestURL(t *testing.T) {
	tests := []struct {
		name   string
		thumbs Thumbnails
		want   string
	}{
		{"medium preferred", Thumbnails{
			"default": {URL: "d"}, "medium": {URL: "m"}, "high": {URL: "h"},
		}, "m"},
		{"high fallback", Thumbnails{"default": {URL: "d"}, "high": {URL: "h"}}, "h"},
		{"default fallback", Thumbnails{"default": {URL: "d"}}, "d"},
		{"any rendition", Thumbnails{"maxres": {URL: "x"}}, "x"},
		{"empty", Thumbnails{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.thumbs.BestURL())
		})
	}
}

func TestSearchVideoIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "cats", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "date", q.Get("order"))
		assert.Equal(t, "none", q.Get("safeSearch"))
		_, _ = w.Write([]byte(`{"items":[{"id":{"videoId":"a1"}},{"id":{"videoId":"b2"}}]}`))
	})

	ids, err := c.SearchVideoIDs(context.Background(), "cats", "published", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)
}

func TestSearchVideoIDsClampsMaxResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	_, err := c.SearchVideoIDs(context.Background(), "q", "relevance", 100)
	require.NoError(t, err)
}

func TestVideos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "a1,b2", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"items":[
			{"id":"a1","snippet":{"title":"First","channelTitle":"Chan"},
			 "contentDetails":{"duration":"PT4M13S"},
			 "statistics":{"viewCount":"123"},
			 "status":{"embeddable":true}}
		]}`))
	})

	videos, err := c.Videos(context.Background(), []string{"a1", "b2"})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "First", videos[0].Snippet.Title)
	assert.Equal(t, "PT4M13S", videos[0].ContentDetails.Duration)
	assert.Equal(t, "123", videos[0].Statistics.ViewCount)
	assert.True(t, videos[0].Status.Embeddable)
}

func TestVideosEmptyInput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty id list")
	})
	videos, err := c.Videos(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestMostPopular(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "mostPopular", q.Get("chart"))
		assert.Equal(t, "AT", q.Get("regionCode"))
		_, _ = w.Write([]byte(`{"items":[{"id":"v1"},{"id":"v2"}]}`))
	})

	videos, err := c.MostPopular(context.Background(), "AT", 10)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestChannelByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"id":"UC1",
			"snippet":{"title":"Some Channel","country":"AT"},
			"statistics":{"subscriberCount":"42","viewCount":"1000"},
			"contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`))
	})

	ch, err := c.ChannelByID(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, "Some Channel", ch.Snippet.Title)
	assert.Equal(t, "42", ch.Statistics.SubscriberCount)
	assert.Equal(t, "UU1", ch.UploadsPlaylist)
}

func TestChannelByIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	_, err := c.ChannelByID(context.Background(), "UCx")
	assert.ErrorIs(t, err, fetch.ErrNotFound)
}

func TestPlaylistVideoIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlistItems", r.URL.Path)
		assert.Equal(t, "UU1", r.URL.Query().Get("playlistId"))
		_, _ = w.Write([]byte(`{"items":[
			{"snippet":{"resourceId":{"videoId":"v1"}}},
			{"snippet":{"resourceId":{"videoId":"v2"}}}
		]}`))
	})

	ids, err := c.PlaylistVideoIDs(context.Background(), "UU1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, ids)
}

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		iso  string
		want int
	}{
		{"PT4M13S", 253},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"P1DT2H", 93600},
		{"PT0S", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DurationSeconds(tt.iso), "iso=%q", tt.iso)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "4:13", FormatDuration(253))
	assert.Equal(t, "1:02:03", FormatDuration(3723))
	assert.Equal(t, "0:45", FormatDuration(45))
	assert.Equal(t, "0:00", FormatDuration(-5))
}
