package gemini

import (
	"context"

	"github.com/pkoster/heatscan"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// tokenizerModel is the default for NewTokenCounter. The local tokenizer
// supports a narrower model set than the generation API.
const tokenizerModel = "gemini-2.0-flash"

var _ heatscan.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the local Gemini tokenizer. The scan
// report uses it to aggregate token totals across descriptions.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model.
// An empty model name selects the default tokenizer model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = tokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
