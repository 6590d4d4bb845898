// Package gnews searches Google News headlines for a symbol.
package gnews

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yclin/twreport"
	"github.com/yclin/twreport/fetch"
)

const searchURL = "https://news.google.com/rss/search"

// Client implements twreport.NewsSource over the RSS search feed.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient returns a client backed by the shared transport.
func NewClient() *Client {
	return &Client{HTTP: fetch.NewClient(), BaseURL: searchURL}
}

// Search returns up to limit headlines for a symbol, newest first as the
// feed orders them. The display name, when known, sharpens the query.
func (c *Client) Search(symbol, name string, limit int) ([]twreport.NewsItem, error) {
	q := symbol
	if name != "" {
		q = symbol + " " + name
	}
	params := url.Values{
		"q":    {q},
		"hl":   {"zh-TW"},
		"gl":   {"TW"},
		"ceid": {"TW:zh-Hant"},
	}
	raw, err := fetch.Bytes(c.HTTP, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", symbol, err)
	}
	items, err := parseFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", symbol, err)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func parseFeed(raw []byte) ([]twreport.NewsItem, error) {
	var feed struct {
		Channel struct {
			Items []struct {
				Title   string `xml:"title"`
				Link    string `xml:"link"`
				PubDate string `xml:"pubDate"`
				Source  string `xml:"source"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, err
	}
	items := make([]twreport.NewsItem, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		items = append(items, twreport.NewsItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: it.PubDate,
			Origin:    it.Source,
		})
	}
	return items, nil
}
