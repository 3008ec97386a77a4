// Package goquery summarizes rendered pages using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/georender"
)

var _ georender.Inspector = (*Inspector)(nil)

// Inspector reads page metadata and outgoing links from rendered HTML.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect parses html and returns its title, description, canonical URL and
// links. Relative URLs are resolved against baseURL.
func (i *Inspector) Inspect(html string, baseURL string) (*georender.PageInfo, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, georender.Errorf(georender.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, georender.Errorf(georender.EINVALID, "failed to parse HTML: %v", err)
	}

	info := &georender.PageInfo{
		Title:       firstNonEmpty(doc.Find("title").First().Text(), metaContent(doc, `meta[property="og:title"]`)),
		Description: firstNonEmpty(metaContent(doc, `meta[name="description"]`), metaContent(doc, `meta[property="og:description"]`)),
		Links:       []string{},
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		info.Canonical = resolveURL(base, href)
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := resolveURL(base, href)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		info.Links = append(info.Links, link)
	})

	return info, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// resolveURL resolves href against base and drops the fragment.
// It returns "" for unparsable and non-http(s) targets.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
