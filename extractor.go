package heatscan

// ExtractResult holds the extracted content from a detail page.
type ExtractResult struct {
	// Title is the page title. May be empty when the page has none.
	Title string

	// ContentHTML is the descriptive content as HTML, scoped to the
	// page's main content container.
	ContentHTML string
}

// Extractor extracts the descriptive content from detail page HTML.
type Extractor interface {
	// Extract processes raw HTML and returns the descriptive content.
	// Returns ENOTFOUND if the page has no recognizable content container.
	Extract(html string) (*ExtractResult, error)
}
