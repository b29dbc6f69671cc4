package heatscan

// CaseStudy is the fully processed record for one listed project.
type CaseStudy struct {
	// Position is the project's zero-based index on the listing page.
	Position int

	// Title is the listing card title.
	Title string

	// DetailURL is the absolute URL of the detail page. Empty for cards
	// without a link.
	DetailURL string

	// Description is the sanitized plain-text description.
	Description string

	// Markdown is the description converted for export. Falls back to the
	// plain text when conversion is unavailable.
	Markdown string

	// ContentHash identifies the description content.
	ContentHash string

	// Verdict is the relevance decision.
	Verdict Verdict

	// Summary is the generated summary. Nil means not computed: the study
	// is irrelevant, no summarizer was configured, or summarization
	// failed. Distinct from an empty string.
	Summary *string

	// SummaryErr records a summarization failure for this study.
	SummaryErr error
}

// Validate returns an error if the case study contains invalid fields.
func (s *CaseStudy) Validate() error {
	if s.Title == "" {
		return Errorf(EINVALID, "case study title required")
	}
	if s.Verdict != VerdictRelevant && s.Verdict != VerdictIrrelevant {
		return Errorf(EINVALID, "case study verdict required")
	}
	return nil
}

// Report aggregates the outcome of one scan run.
type Report struct {
	// ListingURL is the listing page the run scanned.
	ListingURL string

	// RunID identifies the run.
	RunID string

	// Scraped is the number of projects found on the listing page,
	// including those whose detail pages could not be retrieved.
	Scraped int

	// Relevant is the number of studies classified relevant.
	Relevant int

	// Skipped is the number of listed projects dropped because their
	// detail page could not be fetched or parsed.
	Skipped int

	// Bytes is the total size of the sanitized descriptions.
	Bytes int

	// Tokens is the total token count across descriptions, when a token
	// counter is configured.
	Tokens int

	// Studies holds the processed records in listing order.
	Studies []*CaseStudy
}
