package mock

import "github.com/pkoster/heatscan"

var _ heatscan.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of heatscan.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(contentHTML string) (*heatscan.Sanitized, error)
}

func (s *Sanitizer) Sanitize(contentHTML string) (*heatscan.Sanitized, error) {
	return s.SanitizeFn(contentHTML)
}
