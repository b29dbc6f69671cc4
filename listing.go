package heatscan

// Stub is a single project entry on the listing page: a title and the
// link to the project's detail page.
type Stub struct {
	// Title is the card's display title. Implementations substitute a
	// placeholder when the card carries no title element.
	Title string

	// DetailURL is the absolute URL of the project's detail page.
	// Empty when the card has no link.
	DetailURL string
}

// ListingExtractor extracts project stubs from the listing page HTML.
type ListingExtractor interface {
	// ExtractListing parses listing HTML and returns stubs in document
	// order. Duplicates are preserved. The baseURL resolves relative links.
	// A page with no project cards yields an empty slice, not an error.
	ExtractListing(html string, baseURL string) ([]Stub, error)
}
