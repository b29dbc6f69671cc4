package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkoster/heatscan"
	"github.com/pkoster/heatscan/gemini"
	"github.com/pkoster/heatscan/goquery"
	"github.com/pkoster/heatscan/htmltomarkdown"
	heathttp "github.com/pkoster/heatscan/http"
	"github.com/pkoster/heatscan/readability"
	"github.com/pkoster/heatscan/rod"
	"github.com/pkoster/heatscan/scrape"
	heatslog "github.com/pkoster/heatscan/slog"
	"github.com/pkoster/heatscan/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("heatscan"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"listing_url": DefaultListingURL},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'heatscan --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Wire command-specific dependencies based on command
	if cmd == "scrape" {
		sc := &cli.Scrape

		base, err := newFetcher(sc.Render, sc.Timeout, stderr)
		if err != nil {
			return err
		}
		defer base.Close()

		fetcher := heatscan.Fetcher(heathttp.NewRetryFetcher(base, nil))
		if sc.Verbose {
			fetcher = heatslog.NewLoggingFetcher(fetcher, logger)
		}
		deps.Fetcher = fetcher

		var summarizer heatscan.Summarizer
		if !sc.NoSummaries {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey or pass --no-summaries")
				return fmt.Errorf("GEMINI_API_KEY not set")
			}

			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}

			summarizer = gemini.NewSummarizer(client, gemini.WithTimeout(sc.Timeout))
			if sc.Verbose {
				summarizer = heatslog.NewLoggingSummarizer(summarizer, logger)
			}
		}

		// Token totals are a best-effort statistic; the scan runs without
		// them when the local tokenizer is unavailable.
		var tokenCounter heatscan.TokenCounter
		if tc, err := gemini.NewTokenCounter(""); err == nil {
			tokenCounter = tc
		}

		deps.Pipeline = &scrape.Pipeline{
			Fetcher:      fetcher,
			Listing:      goquery.NewListingExtractor(),
			Details:      newExtractor(sc.Extractor),
			Sanitizer:    goquery.NewSanitizer(),
			Classifier:   newClassifier(sc.Keyword),
			Summarizer:   summarizer,
			Converter:    htmltomarkdown.NewConverter(),
			TokenCounter: tokenCounter,
			RateLimiter:  scrape.NewDomainLimiter(1.0),
			Concurrency:  sc.Concurrency,
		}
	}

	if cmd == "page" {
		pc := &cli.Page

		base, err := newFetcher(pc.Render, pc.Timeout, stderr)
		if err != nil {
			return err
		}
		defer base.Close()

		deps.Fetcher = base
		deps.Extractor = newExtractor(pc.Extractor)
		deps.Sanitizer = goquery.NewSanitizer()
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the page fetcher: plain HTTP by default, a headless
// browser when render is set.
func newFetcher(render bool, timeout time.Duration, stderr io.Writer) (heatscan.Fetcher, error) {
	if render {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return fetcher, nil
	}
	return heathttp.NewFetcher(heathttp.WithTimeout(timeout)), nil
}

// newExtractor selects the detail content extractor by name.
func newExtractor(name string) heatscan.Extractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewDetailExtractor()
	}
}

// newClassifier builds the keyword classifier, substituting the built-in
// keyword set when none are given.
func newClassifier(keywords []string) heatscan.Classifier {
	if len(keywords) == 0 {
		keywords = heatscan.DefaultKeywords()
	}
	return heatscan.NewKeywordClassifier(keywords)
}
