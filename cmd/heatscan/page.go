package main

import (
	"fmt"

	"github.com/pkoster/heatscan"
)

// Run executes the page command.
func (c *PageCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heatscan.ErrorMessage(err))
		return err
	}

	extracted, err := deps.Extractor.Extract(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heatscan.ErrorMessage(err))
		return err
	}

	sanitized, err := deps.Sanitizer.Sanitize(extracted.ContentHTML)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heatscan.ErrorMessage(err))
		return err
	}

	if extracted.Title != "" {
		fmt.Fprintf(deps.Stdout, "# %s\n\n", extracted.Title)
	}
	if c.HTML {
		fmt.Fprintln(deps.Stdout, sanitized.HTML)
	} else {
		fmt.Fprintln(deps.Stdout, sanitized.Text)
	}
	return nil
}
