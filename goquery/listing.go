package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkoster/heatscan"
)

var _ heatscan.ListingExtractor = (*ListingExtractor)(nil)

// Structural markers of the project listing page.
const (
	cardSelector      = "article.post-block.project"
	cardTitleSelector = "h2.entry-title"
	cardLinkSelector  = "a.post-block-wrapper"
)

// PlaceholderTitle substitutes for listing cards without a title element.
const PlaceholderTitle = "No title"

// ListingExtractor extracts project stubs from listing page HTML.
type ListingExtractor struct{}

// NewListingExtractor creates a new ListingExtractor.
func NewListingExtractor() *ListingExtractor {
	return &ListingExtractor{}
}

// ExtractListing parses listing HTML and returns stubs in document order.
// Duplicates are preserved. Relative hrefs resolve against baseURL.
// A page without project cards yields an empty result, not an error.
func (e *ListingExtractor) ExtractListing(html string, baseURL string) ([]heatscan.Stub, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, heatscan.Errorf(heatscan.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, heatscan.Errorf(heatscan.EINVALID, "failed to parse HTML: %v", err)
	}

	var stubs []heatscan.Stub
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		stub := heatscan.Stub{Title: PlaceholderTitle}
		if title := strings.TrimSpace(card.Find(cardTitleSelector).First().Text()); title != "" {
			stub.Title = title
		}
		if href, ok := card.Find(cardLinkSelector).First().Attr("href"); ok && href != "" {
			stub.DetailURL = resolveURL(base, href)
		}
		stubs = append(stubs, stub)
	})

	return stubs, nil
}

// resolveURL resolves a relative href against the listing URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
