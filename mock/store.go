package mock

import (
	"context"

	"github.com/pkoster/heatscan"
)

var _ heatscan.StudyStore = (*StudyStore)(nil)

// StudyStore is a mock implementation of heatscan.StudyStore.
type StudyStore struct {
	SaveFn   func(ctx context.Context, study *heatscan.CaseStudy) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *StudyStore) Save(ctx context.Context, study *heatscan.CaseStudy) error {
	return s.SaveFn(ctx, study)
}

func (s *StudyStore) Commit() error {
	return s.CommitFn()
}

func (s *StudyStore) Abort() error {
	return s.AbortFn()
}
