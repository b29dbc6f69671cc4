package mock

import (
	"context"

	"github.com/pkoster/heatscan"
)

var _ heatscan.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of heatscan.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.SummarizeFn(ctx, text)
}
