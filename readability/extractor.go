// Package readability provides a heuristic heatscan.Extractor for detail
// pages that lack the expected content container markup.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pkoster/heatscan"
)

// Ensure Extractor implements heatscan.Extractor at compile time.
var _ heatscan.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*heatscan.ExtractResult, error) {
	if rawHTML == "" {
		return nil, heatscan.Errorf(heatscan.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &heatscan.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
