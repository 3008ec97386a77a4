// Package readability extracts the main content of rendered pages with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/georender"
	"github.com/go-shiori/go-readability"
)

var _ georender.Extractor = (*Extractor)(nil)

// Extractor uses Mozilla's Readability algorithm to find the article body.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and body of rawHTML. It reports
// ENOTFOUND when no readable body is present.
func (e *Extractor) Extract(rawHTML string) (*georender.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, georender.Errorf(georender.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, georender.Errorf(georender.ENOTFOUND, "no readable content")
	}

	return &georender.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
