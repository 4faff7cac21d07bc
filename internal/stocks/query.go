// SPDX-License-Identifier: MIT

// Package stocks implements the legacy stock widget protocol: an XML query
// envelope posted by the device, answered from a market data upstream.
package stocks

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Query types the widget posts.
const (
	TypeQuotes  = "getquotes"
	TypeSymbols = "getsymbol"
	TypeChart   = "getchart"
)

// Query is the decoded query element. Fields beyond Type are populated
// depending on the query type.
type Query struct {
	Type    string
	Symbols []string // getquotes
	Phrase  string   // getsymbol
	Count   int      // getsymbol
	Offset  int      // getsymbol
	Symbol  string   // getchart
	Range   string   // getchart
}

type listItem struct {
	Value string `xml:",chardata"`
}

// listEl accepts any child tag; firmware generations disagree on whether
// list entries are named <symbol> or <quote>.
type listEl struct {
	Items []listItem `xml:",any"`
}

type queryEl struct {
	Type   string `xml:"type,attr"`
	List   listEl `xml:"list"`
	Phrase string `xml:"phrase"`
	Count  int    `xml:"count"`
	Offset int    `xml:"offset"`
	Symbol string `xml:"symbol"`
	Range  string `xml:"range"`
}

type envelope struct {
	XMLName xml.Name `xml:"request"`
	Query   queryEl  `xml:"query"`
}

// ParseQuery decodes a request envelope. The devices terminate the body
// with a NUL byte, which the XML decoder must never see.
func ParseQuery(body []byte) (*Query, error) {
	raw := strings.TrimRight(string(body), "\x00\r\n ")

	var env envelope
	if err := xml.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("decode stock query: %w", err)
	}
	if env.Query.Type == "" {
		return nil, fmt.Errorf("stock query has no type")
	}

	q := &Query{
		Type:   env.Query.Type,
		Phrase: env.Query.Phrase,
		Count:  env.Query.Count,
		Offset: env.Query.Offset,
		Symbol: env.Query.Symbol,
		Range:  env.Query.Range,
	}
	for _, item := range env.Query.List.Items {
		if s := strings.TrimSpace(item.Value); s != "" {
			q.Symbols = append(q.Symbols, s)
		}
	}
	return q, nil
}
