// SPDX-License-Identifier: MIT

// Package innertube resolves playable stream manifests through the
// youtubei player endpoint.
package innertube

import (
	"context"
	"fmt"
	"net/http"

	"retrogate/internal/fetch"
)

const defaultBaseURL = "https://www.youtube.com"

// The ANDROID client receives plain stream URLs without signature ciphers,
// which is the only kind the download pipeline can use.
const (
	clientName      = "ANDROID"
	clientVersion   = "19.02.39"
	androidSdk      = 34
	playerUserAgent = "com.google.android.youtube/19.02.39 (Linux; U; Android 14) gzip"
)

// Format is one entry of a stream manifest.
type Format struct {
	ITag     int    `json:"itag"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Height   int    `json:"height"`
	Width    int    `json:"width"`
	Bitrate  int    `json:"bitrate"`
}

// StreamingData is the manifest block of a player response.
type StreamingData struct {
	ExpiresInSeconds string   `json:"expiresInSeconds"`
	Formats          []Format `json:"formats"`
	AdaptiveFormats  []Format `json:"adaptiveFormats"`
}

type playerResponse struct {
	StreamingData     *StreamingData `json:"streamingData"`
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type clientContext struct {
	Client struct {
		HL                string `json:"hl"`
		ClientName        string `json:"clientName"`
		ClientVersion     string `json:"clientVersion"`
		AndroidSDKVersion int    `json:"androidSdkVersion"`
	} `json:"client"`
}

type playerRequest struct {
	Context         clientContext `json:"context"`
	PlaybackContext struct {
		Vis              int    `json:"vis"`
		LactMilliseconds string `json:"lactMilliseconds"`
	} `json:"playbackContext"`
	VideoID        string `json:"videoId"`
	RacyCheckOK    bool   `json:"racyCheckOk"`
	ContentCheckOK bool   `json:"contentCheckOk"`
}

// Client calls the player endpoint.
type Client struct {
	base  string
	fetch *fetch.Client
}

// New returns a Client. An empty baseURL selects the public endpoint.
func New(baseURL string, fc *fetch.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{base: baseURL, fetch: fc}
}

// Player resolves the stream manifest for a video. A non-OK playability
// status yields fetch.ErrNotFound; a well-formed response carrying no
// manifest at all yields fetch.ErrUnavailable.
func (c *Client) Player(ctx context.Context, videoID string) (*StreamingData, error) {
	req := playerRequest{VideoID: videoID, RacyCheckOK: true, ContentCheckOK: true}
	req.Context.Client.HL = "en"
	req.Context.Client.ClientName = clientName
	req.Context.Client.ClientVersion = clientVersion
	req.Context.Client.AndroidSDKVersion = androidSdk
	req.PlaybackContext.Vis = 0
	req.PlaybackContext.LactMilliseconds = "1"

	header := http.Header{}
	header.Set("Accept", "*/*")
	header.Set("Accept-Language", "en-US,en;q=0.9")
	header.Set("User-Agent", playerUserAgent)
	header.Set("Referer", "https://www.youtube.com/")

	var resp playerResponse
	url := c.base + "/youtubei/v1/player?prettyPrint=false"
	if err := c.fetch.PostJSON(ctx, url, header, req, &resp); err != nil {
		return nil, fmt.Errorf("innertube player %s: %w", videoID, err)
	}
	if resp.PlayabilityStatus.Status != "" && resp.PlayabilityStatus.Status != "OK" {
		return nil, fmt.Errorf("video %s not playable (%s): %w",
			videoID, resp.PlayabilityStatus.Status, fetch.ErrNotFound)
	}
	if resp.StreamingData == nil {
		return nil, fmt.Errorf("video %s has no streaming data: %w", videoID, fetch.ErrUnavailable)
	}
	return resp.StreamingData, nil
}
