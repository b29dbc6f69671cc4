package heatscan

import "strings"

// Verdict is the relevance decision for a case study.
type Verdict string

// Relevance verdicts.
const (
	VerdictRelevant   Verdict = "relevant"
	VerdictIrrelevant Verdict = "irrelevant"
)

// Classifier decides whether a case study is relevant to the scan topic.
type Classifier interface {
	// Classify inspects a study's title and description and returns a
	// verdict. Classification is total: every input gets a verdict.
	Classify(title string, description string) Verdict
}

// DefaultKeywords returns the built-in keyword set for industrial heat
// screening.
func DefaultKeywords() []string {
	return []string{"heat", "thermal", "thermo", "energy", "storage"}
}

var _ Classifier = (*KeywordClassifier)(nil)

// KeywordClassifier classifies by case-insensitive keyword containment
// over the title and description.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier creates a classifier for the given keyword set.
// Empty keywords are ignored. An empty set classifies everything
// irrelevant.
func NewKeywordClassifier(keywords []string) *KeywordClassifier {
	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		kws = append(kws, strings.ToLower(kw))
	}
	return &KeywordClassifier{keywords: kws}
}

// Classify returns VerdictRelevant if any keyword occurs in the combined
// title and description, matched case-insensitively as a substring.
func (c *KeywordClassifier) Classify(title string, description string) Verdict {
	haystack := strings.ToLower(title + " " + description)
	for _, kw := range c.keywords {
		if strings.Contains(haystack, kw) {
			return VerdictRelevant
		}
	}
	return VerdictIrrelevant
}
