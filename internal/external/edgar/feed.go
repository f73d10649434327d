package edgar

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// atomFeed models the subset of the EDGAR Atom feed we consume: each entry
// carries an alternate link pointing at a filing index page.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title string     `xml:"title"`
	Links []atomLink `xml:"link"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// FetchFilingIndexURLs fetches the Form 4 feed and returns up to limit filing
// index page URLs in feed order (most recent first). Entries without a usable
// alternate link are skipped silently; only a feed-level fetch or decode
// failure is an error.
// ⭐ SSOT: feed polling happens in this function only
func (c *Client) FetchFilingIndexURLs(ctx context.Context, feedURL string, limit int) ([]string, error) {
	body, err := c.fetch(ctx, feedURL, map[string]string{
		"Accept": "application/atom+xml",
	})
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}

	urls := make([]string, 0, limit)
	for _, entry := range feed.Entries {
		href := alternateLink(entry)
		if href == "" || !strings.Contains(href, "-index.htm") {
			continue
		}

		urls = append(urls, href)
		if len(urls) >= limit {
			break
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"entries": len(feed.Entries),
		"urls":    len(urls),
	}).Debug("Fetched filing index URLs")

	return urls, nil
}

// alternateLink returns the entry's alternate link href, or ""
func alternateLink(entry atomEntry) string {
	for _, link := range entry.Links {
		if link.Rel == "alternate" && link.Href != "" {
			return link.Href
		}
	}
	return ""
}
