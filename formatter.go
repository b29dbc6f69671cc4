package heatscan

import (
	"fmt"
	"strings"
)

// FormatReport renders a report for terminal display.
// Studies appear in listing order. Relevant studies include their summary,
// or an explicit marker when summarization failed.
func FormatReport(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Case study scan of %s\n", r.ListingURL)
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total projects scraped: %d\n", r.Scraped)
	fmt.Fprintf(&b, "Relevant projects: %d\n", r.Relevant)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped (detail unavailable): %d\n", r.Skipped)
	}

	for _, study := range r.Studies {
		b.WriteString("\n")
		fmt.Fprintf(&b, "TITLE: %s\n", study.Title)
		fmt.Fprintf(&b, "RELEVANCE: %s\n", study.Verdict)
		fmt.Fprintf(&b, "DESCRIPTION: %s\n", study.Description)
		fmt.Fprintf(&b, "LINK: %s\n", study.DetailURL)
		switch {
		case study.Summary != nil:
			fmt.Fprintf(&b, "SUMMARY: %s\n", *study.Summary)
		case study.SummaryErr != nil:
			b.WriteString("SUMMARY: summary unavailable\n")
		}
	}

	return b.String()
}
