package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkoster/heatscan"
	"github.com/pkoster/heatscan/fs"
	"github.com/pkoster/heatscan/scrape"
)

// maxProgressURL bounds URL length on progress lines.
const maxProgressURL = 80

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "Found %d projects\n", event.Total)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", scrape.TruncateURL(event.URL, maxProgressURL), event.Error)
		case scrape.ProgressFinished:
			// Report printed after the scan completes
		}
	}

	report, err := deps.Pipeline.Run(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", heatscan.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, heatscan.FormatReport(report))

	if c.Export != "" {
		store := deps.Store
		if store == nil {
			dir := filepath.Clean(c.Export)
			store = fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir), fs.WithRunID(report.RunID))
		}
		if err := exportStudies(deps.Ctx, store, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error exporting: %s\n", heatscan.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "\nExported %d studies to %s\n", len(report.Studies), c.Export)
	}

	fmt.Fprintf(deps.Stdout, "\nScanned %s, %s\n", scrape.FormatBytes(report.Bytes), scrape.FormatTokens(report.Tokens))
	return nil
}

// exportStudies saves every study and commits, aborting the pending export
// on the first failure.
func exportStudies(ctx context.Context, store heatscan.StudyStore, report *heatscan.Report) error {
	for _, study := range report.Studies {
		if err := store.Save(ctx, study); err != nil {
			_ = store.Abort()
			return err
		}
	}
	return store.Commit()
}
