package http

import (
	"context"
	"time"

	"github.com/pkoster/heatscan"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

var _ heatscan.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher wraps a Fetcher with fixed-backoff retries. The pipeline
// itself never retries; resilience lives at the collaborator level.
type RetryFetcher struct {
	fetcher heatscan.Fetcher
	delays  []time.Duration
}

// NewRetryFetcher wraps fetcher with retry behavior. Nil delays means
// DefaultRetryDelays; each fetch makes len(delays)+1 attempts at most.
func NewRetryFetcher(fetcher heatscan.Fetcher, delays []time.Duration) *RetryFetcher {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return &RetryFetcher{fetcher: fetcher, delays: delays}
}

// Fetch retrieves the URL, retrying failed attempts after each delay.
// Returns the last error once the delays are exhausted.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	maxAttempts := len(f.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := f.fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}

	return "", lastErr
}

// Close releases the underlying fetcher's resources.
func (f *RetryFetcher) Close() error {
	return f.fetcher.Close()
}
