// Package trafilatura extracts the main content of rendered pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/georender"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ georender.Extractor = (*Extractor)(nil)

// Extractor strips navigation and other boilerplate from rendered HTML.
type Extractor struct {
	includeLinks  bool
	includeImages bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLinks keeps hyperlinks in the extracted content.
func WithLinks() Option {
	return func(e *Extractor) { e.includeLinks = true }
}

// WithImages keeps images in the extracted content.
func WithImages() Option {
	return func(e *Extractor) { e.includeImages = true }
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the page title and main content of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*georender.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, georender.Errorf(georender.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   e.includeLinks,
		IncludeImages:  e.includeImages,
	})
	if err != nil {
		return nil, err
	}

	out := &georender.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
