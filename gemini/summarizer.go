package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoster/heatscan"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Summary sizing. The word bounds are carried in the system instruction;
// inputs below the short-input threshold skip the model entirely.
const (
	MinSummaryWords = 30
	MaxSummaryWords = 130

	// ShortInputWords is the threshold below which input is returned
	// verbatim instead of summarized.
	ShortInputWords = 40

	// MaxInputRunes caps the text sent to the model. Longer inputs are
	// truncated at a word boundary.
	MaxInputRunes = 24000
)

// Ensure Summarizer implements heatscan.Summarizer at compile time.
var _ heatscan.Summarizer = (*Summarizer)(nil)

// Summarizer implements heatscan.Summarizer using Google Gemini.
type Summarizer struct {
	client  *genai.Client
	timeout time.Duration
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTimeout sets a per-call timeout. Zero means no timeout beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client, opts ...Option) *Summarizer {
	s := &Summarizer{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize condenses a project description into a short paragraph.
// Inputs shorter than ShortInputWords words are returned unchanged
// without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(strings.Fields(trimmed)) < ShortInputWords {
		return trimmed, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := BuildSummaryPrompt(Truncate(trimmed, MaxInputRunes))
	config := BuildConfig()

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", heatscan.Errorf(heatscan.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// Temperature is pinned to zero so repeated runs summarize identically.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("You are a summarization engine for industrial energy project descriptions. Produce a single plain-text paragraph between %d and %d words. Use only facts from the provided text. No preamble, no bullet points.", MinSummaryWords, MaxSummaryWords),
			}},
		},
		Temperature: &temp,
	}
}

// BuildSummaryPrompt builds the user prompt around the description text.
func BuildSummaryPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("<description>\n")
	sb.WriteString(text)
	sb.WriteString("\n</description>\n\n")
	sb.WriteString("Summarize the project description above.")
	return sb.String()
}

// Truncate caps s at max runes, cutting at the last word boundary before
// the cap. Strings within the cap are returned unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
