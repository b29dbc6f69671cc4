package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkoster/heatscan"
)

var _ heatscan.Extractor = (*DetailExtractor)(nil)

// Structural markers of a project detail page.
const (
	contentSelector   = "div.entry-content"
	pageTitleSelector = "h1.entry-title"
)

// DetailExtractor extracts the descriptive content container from a
// project detail page.
type DetailExtractor struct{}

// NewDetailExtractor creates a new DetailExtractor.
func NewDetailExtractor() *DetailExtractor {
	return &DetailExtractor{}
}

// Extract returns the detail page's content container as HTML plus the
// page title when present. Returns ENOTFOUND if the page has no content
// container.
func (e *DetailExtractor) Extract(html string) (*heatscan.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, heatscan.Errorf(heatscan.EINVALID, "failed to parse HTML: %v", err)
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, heatscan.Errorf(heatscan.ENOTFOUND, "no content container in page")
	}

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, heatscan.Errorf(heatscan.EINTERNAL, "failed to serialize content: %v", err)
	}

	return &heatscan.ExtractResult{
		Title:       strings.TrimSpace(doc.Find(pageTitleSelector).First().Text()),
		ContentHTML: contentHTML,
	}, nil
}
