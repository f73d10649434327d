package edgar

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/insidertracker/backend/internal/contracts"
)

// styledRenderingSegments are path components EDGAR inserts to serve a
// human-readable HTML rendering of a filing. The same path without the
// segment serves the raw XML document.
var styledRenderingSegments = []string{
	"xslF345X01",
	"xslF345X02",
	"xslF345X03",
	"xslF345X04",
	"xslF345X05",
}

// primaryDocPattern matches hrefs that follow the known primary-document
// naming conventions for Form 4 filings.
var primaryDocPattern = regexp.MustCompile(`(?i)(wf-form4|doc4|primary_doc).*\.xml$`)

// excludedDocMarkers mark auxiliary XML files that are never the primary
// ownership document.
var excludedDocMarkers = []string{"filingfees", "ex-", "exhibit"}

// ResolveDocumentURL fetches a filing index page and resolves the absolute
// URL of the raw ownership document. On failure it returns an empty URL and
// a skip reason; it never returns an error.
// ⭐ SSOT: index-page resolution happens in this function only
func (c *Client) ResolveDocumentURL(ctx context.Context, indexURL string) (string, contracts.SkipReason) {
	body, err := c.fetch(ctx, indexURL, nil)
	if err != nil {
		c.logger.WithError(err).WithField("url", indexURL).Debug("Index fetch failed")
		return "", contracts.SkipIndexFetchFailed
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).WithField("url", indexURL).Debug("Index parse failed")
		return "", contracts.SkipIndexFetchFailed
	}

	if !isForm4Index(doc) {
		return "", contracts.SkipWrongDocumentType
	}

	href := findDocumentHref(doc)
	if href == "" {
		return "", contracts.SkipNoDocumentLink
	}

	raw := stripStyledSegments(href)

	resolved, ok := absoluteDocumentURL(raw, indexURL)
	if !ok {
		return "", contracts.SkipNoDocumentLink
	}

	c.logger.WithFields(map[string]interface{}{
		"index": indexURL,
		"doc":   resolved,
	}).Debug("Resolved document URL")

	return resolved, ""
}

// isForm4Index checks the index page describes a Form 4 filing
func isForm4Index(doc *goquery.Document) bool {
	found := false
	doc.Find("strong").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == "Form 4" {
			found = true
			return false
		}
		return true
	})
	return found
}

// findDocumentHref locates the ownership document link with a priority
// search: known primary-document names first, then the first XML document
// that is not a fee schedule or exhibit.
func findDocumentHref(doc *goquery.Document) string {
	var primary, fallback string

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		if !strings.HasSuffix(lower, ".xml") {
			return true
		}

		if primaryDocPattern.MatchString(href) {
			primary = href
			return false
		}

		if fallback == "" && !isExcludedDoc(lower) {
			fallback = href
		}
		return true
	})

	if primary != "" {
		return primary
	}
	return fallback
}

// isExcludedDoc reports whether an href names an auxiliary document
func isExcludedDoc(lowerHref string) bool {
	for _, marker := range excludedDocMarkers {
		if strings.Contains(lowerHref, marker) {
			return true
		}
	}
	return false
}

// stripStyledSegments removes any styled-rendering directory from the path,
// restoring the canonical raw-document path
func stripStyledSegments(href string) string {
	for _, seg := range styledRenderingSegments {
		href = strings.ReplaceAll(href, "/"+seg+"/", "/")
		href = strings.TrimPrefix(href, seg+"/")
	}
	return href
}

// absoluteDocumentURL turns a discovered href into an absolute URL.
// Rules, in order: host-absolute paths get the index page's scheme+host;
// full URLs pass through; anything else resolves against the index page's
// own directory.
func absoluteDocumentURL(href, indexURL string) (string, bool) {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, true
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return "", false
	}

	if strings.HasPrefix(href, "/") {
		return base.Scheme + "://" + base.Host + href, true
	}

	dir := indexURL[:strings.LastIndex(indexURL, "/")+1]
	return dir + href, true
}
