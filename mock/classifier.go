package mock

import "github.com/pkoster/heatscan"

var _ heatscan.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of heatscan.Classifier.
type Classifier struct {
	ClassifyFn func(title string, description string) heatscan.Verdict
}

func (c *Classifier) Classify(title string, description string) heatscan.Verdict {
	return c.ClassifyFn(title, description)
}
