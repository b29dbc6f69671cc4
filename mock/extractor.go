package mock

import "github.com/pkoster/heatscan"

var _ heatscan.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of heatscan.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*heatscan.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*heatscan.ExtractResult, error) {
	return e.ExtractFn(html)
}
