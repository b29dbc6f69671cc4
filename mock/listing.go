package mock

import "github.com/pkoster/heatscan"

var _ heatscan.ListingExtractor = (*ListingExtractor)(nil)

// ListingExtractor is a mock implementation of heatscan.ListingExtractor.
type ListingExtractor struct {
	ExtractListingFn func(html string, baseURL string) ([]heatscan.Stub, error)
}

func (e *ListingExtractor) ExtractListing(html string, baseURL string) ([]heatscan.Stub, error) {
	return e.ExtractListingFn(html, baseURL)
}
