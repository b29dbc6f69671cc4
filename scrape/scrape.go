// Package scrape provides case study scan orchestration.
// It coordinates listing extraction, detail fetching, sanitization,
// classification and summarization of project pages.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkoster/heatscan"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates the scan of a project listing.
type Pipeline struct {
	Fetcher      heatscan.Fetcher
	Listing      heatscan.ListingExtractor
	Details      heatscan.Extractor
	Sanitizer    heatscan.Sanitizer
	Classifier   heatscan.Classifier
	Summarizer   heatscan.Summarizer
	Converter    heatscan.Converter
	TokenCounter heatscan.TokenCounter
	RateLimiter  heatscan.DomainLimiter
	Concurrency  int
}

// ProgressEvent reports progress during a scan.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scan progress.
type ProgressFunc func(event ProgressEvent)

// studyResult holds the outcome of processing a single listed project.
type studyResult struct {
	position int
	url      string
	study    *heatscan.CaseStudy
	err      error
}

// Run scans the listing page at listingURL and returns the aggregate
// report. A listing fetch or parse failure aborts the run; a detail page
// failure skips only that project. The progress callback, if provided,
// receives events as the scan proceeds.
func (p *Pipeline) Run(ctx context.Context, listingURL string, progress ProgressFunc) (*heatscan.Report, error) {
	listingHTML, err := p.Fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing %s: %w", listingURL, err)
	}

	stubs, err := p.Listing.ExtractListing(listingHTML, listingURL)
	if err != nil {
		return nil, fmt.Errorf("extracting listing: %w", err)
	}

	report := &heatscan.Report{
		ListingURL: listingURL,
		RunID:      uuid.NewString(),
		Scraped:    len(stubs),
	}

	if len(stubs) == 0 {
		return report, nil
	}

	// Sequential unless Concurrency opts in to parallelism.
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// Channel for collecting results
	resultCh := make(chan studyResult, len(stubs))

	// Progress tracking
	var completed atomic.Int64
	total := len(stubs)

	// Notify start
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	// Start workers
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, stub := range stubs {
			g.Go(func() error {
				resultCh <- p.processStub(gctx, i, stub)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in listing order
	results := make([]studyResult, len(stubs))
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if result.err != nil {
			report.Skipped++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
					Error:     result.err,
				})
			}
		} else {
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       result.url,
				})
			}
		}
	}

	// Assemble the report and accumulate stats
	for _, result := range results {
		if result.err != nil || result.study == nil {
			continue
		}

		study := result.study
		report.Studies = append(report.Studies, study)
		if study.Verdict == heatscan.VerdictRelevant {
			report.Relevant++
		}
		report.Bytes += len(study.Description)
		if p.TokenCounter != nil {
			if tokens, err := p.TokenCounter.CountTokens(ctx, study.Description); err == nil {
				report.Tokens += tokens
			}
		}
	}

	// Notify finished
	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return report, nil
}

// processStub fetches and processes a single listed project.
func (p *Pipeline) processStub(ctx context.Context, position int, stub heatscan.Stub) studyResult {
	result := studyResult{
		position: position,
		url:      stub.DetailURL,
	}

	study := &heatscan.CaseStudy{
		Position:  position,
		Title:     stub.Title,
		DetailURL: stub.DetailURL,
	}

	// Cards without a detail link classify on the title alone.
	if stub.DetailURL != "" {
		if p.RateLimiter != nil {
			if domain := urlHost(stub.DetailURL); domain != "" {
				if err := p.RateLimiter.Wait(ctx, domain); err != nil {
					result.err = err
					return result
				}
			}
		}

		html, err := p.Fetcher.Fetch(ctx, stub.DetailURL)
		if err != nil {
			result.err = err
			return result
		}

		// A page without the expected content container degrades to an
		// empty description rather than skipping the project.
		extracted, err := p.Details.Extract(html)
		if err != nil && heatscan.ErrorCode(err) != heatscan.ENOTFOUND {
			result.err = err
			return result
		}

		if extracted != nil {
			sanitized, err := p.Sanitizer.Sanitize(extracted.ContentHTML)
			if err != nil {
				result.err = err
				return result
			}
			study.Description = sanitized.Text
			study.Markdown = p.convert(sanitized)
		}
	}

	study.ContentHash = ComputeHash(study.Description)
	study.Verdict = p.Classifier.Classify(study.Title, study.Description)

	if study.Verdict == heatscan.VerdictRelevant && p.Summarizer != nil {
		summary, err := p.Summarizer.Summarize(ctx, study.Description)
		if err != nil {
			study.SummaryErr = err
		} else {
			study.Summary = &summary
		}
	}

	result.study = study
	return result
}

// convert renders the pruned fragment as markdown, falling back to the
// plain text when conversion fails.
func (p *Pipeline) convert(sanitized *heatscan.Sanitized) string {
	if p.Converter == nil {
		return ""
	}
	markdown, err := p.Converter.Convert(sanitized.HTML)
	if err != nil {
		return sanitized.Text
	}
	return markdown
}

// urlHost returns the host portion of rawURL, or "" when it cannot be
// parsed.
func urlHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
