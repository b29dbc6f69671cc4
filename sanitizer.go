package heatscan

// Sanitized holds the cleaned form of a detail page's content.
type Sanitized struct {
	// Text is the flattened plain text with whitespace normalized:
	// runs of whitespace collapsed to single spaces, ends trimmed.
	Text string

	// HTML is the cleaned content markup with the same removals applied.
	// Useful for downstream conversion.
	HTML string
}

// Sanitizer prunes promotional and trailing material from detail content.
type Sanitizer interface {
	// Sanitize removes call-to-action blocks, image captions, and the
	// trailing related-content section from the content HTML, then
	// flattens what remains. Sanitizing already-clean content is a no-op.
	Sanitize(contentHTML string) (*Sanitized, error)
}
