package scrape_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkoster/heatscan"
	"github.com/pkoster/heatscan/mock"
	"github.com/pkoster/heatscan/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("fails when the listing page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", heatscan.Errorf(heatscan.EUNAVAILABLE, "connection refused")
				},
			},
			Listing: &mock.ListingExtractor{},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "fetching listing")
	})

	t.Run("returns empty report when the listing has no projects", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html><body></body></html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{}, nil
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, 0, report.Scraped)
		assert.Equal(t, 0, report.Relevant)
		assert.Equal(t, 0, report.Skipped)
		assert.Empty(t, report.Studies)
		assert.NotEmpty(t, report.RunID)
	})

	t.Run("processes a single relevant project end to end", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://ispt.eu/projects/?theme-tag=heat" {
						return "<html>listing</html>", nil
					}
					return "<html>detail</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "Heat Battery", DetailURL: "https://ispt.eu/projects/heat-battery/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{
						Title:       "Heat Battery",
						ContentHTML: "<p>Salt stores heat.</p>",
					}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{
						Text: "Salt stores heat.",
						HTML: "<p>Salt stores heat.</p>",
					}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictRelevant
				},
			},
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, _ string) (string, error) {
					return "Salt stores heat.", nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) {
					return "Salt stores heat.", nil
				},
			},
			TokenCounter: &mock.TokenCounter{
				CountTokensFn: func(_ context.Context, text string) (int, error) {
					return len(text) / 4, nil // ~4 chars per token
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, 1, report.Scraped)
		assert.Equal(t, 1, report.Relevant)
		assert.Equal(t, 0, report.Skipped)
		assert.Equal(t, len("Salt stores heat."), report.Bytes)
		assert.Equal(t, 4, report.Tokens) // 17 chars / 4 = 4
		assert.NotEmpty(t, report.RunID)

		require.Len(t, report.Studies, 1)
		study := report.Studies[0]
		assert.Equal(t, 0, study.Position)
		assert.Equal(t, "Heat Battery", study.Title)
		assert.Equal(t, "https://ispt.eu/projects/heat-battery/", study.DetailURL)
		assert.Equal(t, "Salt stores heat.", study.Description)
		assert.Equal(t, "Salt stores heat.", study.Markdown)
		assert.Equal(t, scrape.ComputeHash("Salt stores heat."), study.ContentHash)
		assert.Equal(t, heatscan.VerdictRelevant, study.Verdict)
		require.NotNil(t, study.Summary)
		assert.Equal(t, "Salt stores heat.", *study.Summary)
		assert.NoError(t, study.SummaryErr)
	})

	t.Run("a failed detail fetch skips only that project", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://ispt.eu/projects/broken/" {
						return "", heatscan.Errorf(heatscan.EUNAVAILABLE, "detail fetch failed")
					}
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "First", DetailURL: "https://ispt.eu/projects/first/"},
						{Title: "Broken", DetailURL: "https://ispt.eu/projects/broken/"},
						{Title: "Third", DetailURL: "https://ispt.eu/projects/third/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>text</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "text", HTML: "<p>text</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictIrrelevant
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		// The failed project still counts toward the scrape total.
		assert.Equal(t, 3, report.Scraped)
		assert.Equal(t, 1, report.Skipped)
		require.Len(t, report.Studies, 2)
		assert.Equal(t, "First", report.Studies[0].Title)
		assert.Equal(t, "Third", report.Studies[1].Title)
	})

	t.Run("a page without a content container degrades to an empty description", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "Heat Pump Pilot", DetailURL: "https://ispt.eu/projects/heat-pump/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return nil, heatscan.Errorf(heatscan.ENOTFOUND, "Content section not found.")
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(title string, description string) heatscan.Verdict {
					assert.Equal(t, "Heat Pump Pilot", title)
					assert.Empty(t, description)
					return heatscan.VerdictRelevant
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		assert.Equal(t, 0, report.Skipped)
		require.Len(t, report.Studies, 1)
		assert.Empty(t, report.Studies[0].Description)
		assert.Equal(t, heatscan.VerdictRelevant, report.Studies[0].Verdict)
	})

	t.Run("a card without a detail link classifies on the title alone", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = append(fetched, url)
					return "<html>listing</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{{Title: "Thermal Grid"}}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(title string, description string) heatscan.Verdict {
					assert.Equal(t, "Thermal Grid", title)
					assert.Empty(t, description)
					return heatscan.VerdictRelevant
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		require.Len(t, report.Studies, 1)
		assert.Equal(t, heatscan.VerdictRelevant, report.Studies[0].Verdict)
		// Only the listing itself was fetched.
		assert.Equal(t, []string{"https://ispt.eu/projects/?theme-tag=heat"}, fetched)
	})

	t.Run("irrelevant projects are never summarized", func(t *testing.T) {
		t.Parallel()

		summarizeCalls := 0
		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "Plastics Recycling", DetailURL: "https://ispt.eu/projects/plastics/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>Sorting plastics.</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "Sorting plastics.", HTML: "<p>Sorting plastics.</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictIrrelevant
				},
			},
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, _ string) (string, error) {
					summarizeCalls++
					return "should not happen", nil
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		assert.Equal(t, 0, report.Relevant)
		require.Len(t, report.Studies, 1)
		assert.Nil(t, report.Studies[0].Summary)
		assert.Equal(t, 0, summarizeCalls)
	})

	t.Run("a summarization failure keeps the project in the report", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "Heat Battery", DetailURL: "https://ispt.eu/projects/heat-battery/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>Salt stores heat.</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "Salt stores heat.", HTML: "<p>Salt stores heat.</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictRelevant
				},
			},
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, _ string) (string, error) {
					return "", heatscan.Errorf(heatscan.EUNAVAILABLE, "model overloaded")
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Relevant)
		require.Len(t, report.Studies, 1)
		study := report.Studies[0]
		assert.Equal(t, heatscan.VerdictRelevant, study.Verdict)
		assert.Nil(t, study.Summary)
		require.Error(t, study.SummaryErr)
		assert.Equal(t, heatscan.EUNAVAILABLE, heatscan.ErrorCode(study.SummaryErr))
	})

	t.Run("a conversion failure falls back to the plain text", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "E-Boiler", DetailURL: "https://ispt.eu/projects/e-boiler/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>Process steam.</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "Process steam.", HTML: "<p>Process steam.</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictIrrelevant
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) {
					return "", heatscan.Errorf(heatscan.EINTERNAL, "conversion failed")
				},
			},
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		require.Len(t, report.Studies, 1)
		assert.Equal(t, "Process steam.", report.Studies[0].Markdown)
	})

	t.Run("report order follows listing order regardless of completion order", func(t *testing.T) {
		t.Parallel()

		// Earlier listing positions take longer, so completion order is
		// reversed when the stubs run concurrently.
		delays := map[string]time.Duration{
			"https://ispt.eu/projects/first/":  60 * time.Millisecond,
			"https://ispt.eu/projects/second/": 30 * time.Millisecond,
			"https://ispt.eu/projects/third/":  0,
		}

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					time.Sleep(delays[url])
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "First", DetailURL: "https://ispt.eu/projects/first/"},
						{Title: "Second", DetailURL: "https://ispt.eu/projects/second/"},
						{Title: "Third", DetailURL: "https://ispt.eu/projects/third/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>text</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "text", HTML: "<p>text</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictIrrelevant
				},
			},
			Concurrency: 3,
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		require.Len(t, report.Studies, 3)
		assert.Equal(t, "First", report.Studies[0].Title)
		assert.Equal(t, "Second", report.Studies[1].Title)
		assert.Equal(t, "Third", report.Studies[2].Title)
		for i, study := range report.Studies {
			assert.Equal(t, i, study.Position)
		}
	})

	t.Run("waits on the rate limiter before each detail fetch", func(t *testing.T) {
		t.Parallel()

		var domains []string
		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "GRASP", DetailURL: "https://ispt.eu/projects/grasp/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>text</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "text", HTML: "<p>text</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictIrrelevant
				},
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					domains = append(domains, domain)
					return nil
				},
			},
		}

		_, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"ispt.eu"}, domains)
	})

	t.Run("calls progress callback with events", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "GRASP", DetailURL: "https://ispt.eu/projects/grasp/"},
					}, nil
				},
			},
			Details: &mock.Extractor{
				ExtractFn: func(_ string) (*heatscan.ExtractResult, error) {
					return &heatscan.ExtractResult{ContentHTML: "<p>text</p>"}, nil
				},
			},
			Sanitizer: &mock.Sanitizer{
				SanitizeFn: func(_ string) (*heatscan.Sanitized, error) {
					return &heatscan.Sanitized{Text: "text", HTML: "<p>text</p>"}, nil
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func(_ string, _ string) heatscan.Verdict {
					return heatscan.VerdictIrrelevant
				},
			},
		}

		var events []scrape.ProgressEvent
		progress := func(e scrape.ProgressEvent) {
			events = append(events, e)
		}

		_, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", progress)

		require.NoError(t, err)
		require.Len(t, events, 3) // Started, Completed, Finished

		// First event: Started
		assert.Equal(t, scrape.ProgressStarted, events[0].Type)
		assert.Equal(t, 1, events[0].Total)

		// Second event: Completed for the detail URL
		assert.Equal(t, scrape.ProgressCompleted, events[1].Type)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, 1, events[1].Total)
		assert.Equal(t, "https://ispt.eu/projects/grasp/", events[1].URL)

		// Third event: Finished
		assert.Equal(t, scrape.ProgressFinished, events[2].Type)
		assert.Equal(t, 1, events[2].Total)
	})

	t.Run("emits a failed event for a skipped project", func(t *testing.T) {
		t.Parallel()

		p := &scrape.Pipeline{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://ispt.eu/projects/broken/" {
						return "", heatscan.Errorf(heatscan.EUNAVAILABLE, "detail fetch failed")
					}
					return "<html>page</html>", nil
				},
			},
			Listing: &mock.ListingExtractor{
				ExtractListingFn: func(_ string, _ string) ([]heatscan.Stub, error) {
					return []heatscan.Stub{
						{Title: "Broken", DetailURL: "https://ispt.eu/projects/broken/"},
					}, nil
				},
			},
		}

		var failed []scrape.ProgressEvent
		progress := func(e scrape.ProgressEvent) {
			if e.Type == scrape.ProgressFailed {
				failed = append(failed, e)
			}
		}

		report, err := p.Run(context.Background(), "https://ispt.eu/projects/?theme-tag=heat", progress)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		require.Len(t, failed, 1)
		assert.Equal(t, "https://ispt.eu/projects/broken/", failed[0].URL)
		require.Error(t, failed[0].Error)
	})
}
