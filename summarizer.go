package heatscan

import "context"

// Summarizer produces an abstractive summary of a case study description.
type Summarizer interface {
	// Summarize condenses text into a short summary. Inputs already
	// shorter than the summary target are returned unchanged.
	// The context controls timeout and cancellation.
	Summarize(ctx context.Context, text string) (string, error)
}
