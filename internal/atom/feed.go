// SPDX-License-Identifier: MIT

// Package atom renders the GData-era Atom documents the video portal
// firmware parses. Namespace prefixes are emitted literally; the firmware's
// parser matches prefixed names, not namespace URIs.
package atom

import "encoding/xml"

// Namespace URIs of the legacy feed dialect.
const (
	NSAtom       = "http://www.w3.org/2005/Atom"
	NSMedia      = "http://search.yahoo.com/mrss/"
	NSOpenSearch = "http://a9.com/-/spec/opensearch/1.1/"
	NSGData      = "http://schemas.google.com/g/2005"
	NSYouTube    = "http://gdata.youtube.com/schemas/2007"
)

// Feed is a video list document (search results, trending, uploads).
type Feed struct {
	XMLName      xml.Name `xml:"feed"`
	XMLNS        string   `xml:"xmlns,attr"`
	XMLNSMedia   string   `xml:"xmlns:media,attr"`
	XMLNSSearch  string   `xml:"xmlns:openSearch,attr"`
	XMLNSGData   string   `xml:"xmlns:gd,attr"`
	XMLNSYouTube string   `xml:"xmlns:yt,attr"`

	ID           string  `xml:"id"`
	Updated      string  `xml:"updated"`
	Title        Text    `xml:"title"`
	Logo         string  `xml:"logo,omitempty"`
	Links        []Link  `xml:"link"`
	TotalResults int     `xml:"openSearch:totalResults"`
	StartIndex   int     `xml:"openSearch:startIndex"`
	ItemsPerPage int     `xml:"openSearch:itemsPerPage"`
	Entries      []Entry `xml:"entry"`
}

// NewFeed returns a Feed with the namespace declarations filled in.
func NewFeed() *Feed {
	return &Feed{
		XMLNS:        NSAtom,
		XMLNSMedia:   NSMedia,
		XMLNSSearch:  NSOpenSearch,
		XMLNSGData:   NSGData,
		XMLNSYouTube: NSYouTube,
	}
}

// Text is an Atom text construct.
type Text struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Link is an Atom link element.
type Link struct {
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr,omitempty"`
	Href string `xml:"href,attr"`
}

// Category is an Atom category element.
type Category struct {
	Scheme string `xml:"scheme,attr"`
	Term   string `xml:"term,attr"`
	Label  string `xml:"label,attr,omitempty"`
}

// Author is an Atom author element.
type Author struct {
	Name string `xml:"name"`
	URI  string `xml:"uri,omitempty"`
}

// Entry is one video in a Feed.
type Entry struct {
	ID         string     `xml:"id"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	Categories []Category `xml:"category"`
	Title      Text       `xml:"title"`
	Content    Text       `xml:"content"`
	Links      []Link     `xml:"link"`
	Author     Author     `xml:"author"`
	Group      MediaGroup `xml:"media:group"`
	Rating     *Rating    `xml:"gd:rating,omitempty"`
	Statistics *Stats     `xml:"yt:statistics,omitempty"`
}

// MediaGroup is the media:group block of an entry.
type MediaGroup struct {
	Title       string         `xml:"media:title"`
	Description Text           `xml:"media:description"`
	Keywords    string         `xml:"media:keywords,omitempty"`
	Duration    DurationEl     `xml:"yt:duration"`
	VideoID     string         `xml:"yt:videoid"`
	Contents    []MediaContent `xml:"media:content"`
	Thumbnails  []MediaThumb   `xml:"media:thumbnail"`
	Player      *MediaPlayer   `xml:"media:player,omitempty"`
}

// MediaContent is one playable rendition locator.
type MediaContent struct {
	URL      string `xml:"url,attr"`
	Type     string `xml:"type,attr"`
	Medium   string `xml:"medium,attr"`
	Duration int    `xml:"duration,attr,omitempty"`
	Format   int    `xml:"yt:format,attr,omitempty"`
}

// MediaThumb is a thumbnail locator.
type MediaThumb struct {
	URL    string `xml:"url,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// MediaPlayer is the watch-page locator.
type MediaPlayer struct {
	URL string `xml:"url,attr"`
}

// DurationEl is the yt:duration element.
type DurationEl struct {
	Seconds int `xml:"seconds,attr"`
}

// Rating is the gd:rating element.
type Rating struct {
	Average float64 `xml:"average,attr"`
	Min     int     `xml:"min,attr"`
	Max     int     `xml:"max,attr"`
	NumRate int     `xml:"numRaters,attr"`
}

// Stats is the yt:statistics element.
type Stats struct {
	ViewCount     uint64 `xml:"viewCount,attr"`
	FavoriteCount uint64 `xml:"favoriteCount,attr,omitempty"`
}

// UserEntry is the user profile document.
type UserEntry struct {
	XMLName      xml.Name `xml:"entry"`
	XMLNS        string   `xml:"xmlns,attr"`
	XMLNSMedia   string   `xml:"xmlns:media,attr"`
	XMLNSGData   string   `xml:"xmlns:gd,attr"`
	XMLNSYouTube string   `xml:"xmlns:yt,attr"`

	ID         string      `xml:"id"`
	Published  string      `xml:"published"`
	Updated    string      `xml:"updated"`
	Title      Text        `xml:"title"`
	Summary    Text        `xml:"summary"`
	Author     Author      `xml:"author"`
	Username   string      `xml:"yt:username"`
	Location   string      `xml:"yt:location,omitempty"`
	Statistics *UserStats  `xml:"yt:statistics,omitempty"`
	Thumbnail  *MediaThumb `xml:"media:thumbnail,omitempty"`
}

// NewUserEntry returns a UserEntry with namespace declarations filled in.
func NewUserEntry() *UserEntry {
	return &UserEntry{
		XMLNS:        NSAtom,
		XMLNSMedia:   NSMedia,
		XMLNSGData:   NSGData,
		XMLNSYouTube: NSYouTube,
	}
}

// UserStats is the yt:statistics element of a user profile.
type UserStats struct {
	SubscriberCount uint64 `xml:"subscriberCount,attr"`
	ViewCount       uint64 `xml:"viewCount,attr"`
	VideoWatchCount uint64 `xml:"videoWatchCount,attr,omitempty"`
}
