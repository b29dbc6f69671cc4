package main

import (
	"context"
	"io"
	"time"

	"github.com/pkoster/heatscan"
	"github.com/pkoster/heatscan/scrape"
)

// DefaultListingURL is the listing page scanned when no URL argument is
// given.
const DefaultListingURL = "https://ispt.eu/projects/?theme-tag=heat"

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Pipeline   *scrape.Pipeline
	Fetcher    heatscan.Fetcher
	Extractor  heatscan.Extractor
	Sanitizer  heatscan.Sanitizer
	Classifier heatscan.Classifier
	Store      heatscan.StudyStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape   ScrapeCmd   `cmd:"" help:"Scan the project listing and print a relevance report"`
	Page     PageCmd     `cmd:"" help:"Fetch and clean a single project detail page"`
	Classify ClassifyCmd `cmd:"" help:"Classify a title and description for relevance"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL         string        `arg:"" optional:"" default:"${listing_url}" help:"Listing page URL"`
	Keyword     []string      `short:"k" help:"Relevance keyword (repeatable, replaces the built-in set)"`
	Extractor   string        `enum:"goquery,readability,trafilatura" default:"goquery" help:"Detail content extractor"`
	Render      bool          `help:"Render pages in a headless browser"`
	NoSummaries bool          `help:"Skip model summaries for relevant projects"`
	Export      string        `placeholder:"DIR" help:"Export case studies as markdown files under DIR"`
	Concurrency int           `short:"c" default:"1" help:"Concurrent detail fetch limit"`
	Timeout     time.Duration `default:"30s" help:"Per-request timeout"`
	Verbose     bool          `short:"v" help:"Log fetches and summaries to stderr"`
}

// PageCmd is the "page" subcommand.
type PageCmd struct {
	URL       string        `arg:"" help:"Detail page URL"`
	Extractor string        `enum:"goquery,readability,trafilatura" default:"goquery" help:"Detail content extractor"`
	Render    bool          `help:"Render the page in a headless browser"`
	HTML      bool          `help:"Print the pruned HTML instead of plain text"`
	Timeout   time.Duration `default:"30s" help:"Per-request timeout"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	Title       string   `arg:"" help:"Project title"`
	Description string   `arg:"" optional:"" help:"Project description"`
	Keyword     []string `short:"k" help:"Relevance keyword (repeatable, replaces the built-in set)"`
}
