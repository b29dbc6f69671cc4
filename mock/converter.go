package mock

import "github.com/pkoster/heatscan"

var _ heatscan.Converter = (*Converter)(nil)

// Converter is a mock implementation of heatscan.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
