package heatscan

import "context"

// StudyStore persists case studies as export files with atomic semantics.
// Save writes to a temporary location; Commit makes the export permanent;
// Abort discards pending files. Exports are output artifacts only and are
// never read back on later runs.
type StudyStore interface {
	Save(ctx context.Context, study *CaseStudy) error
	Commit() error
	Abort() error
}
