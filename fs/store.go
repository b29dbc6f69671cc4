// Package fs provides file-based export of scanned case studies.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkoster/heatscan"
)

// Ensure FileStore implements heatscan.StudyStore at compile time.
var _ heatscan.StudyStore = (*FileStore)(nil)

// FileStore implements heatscan.StudyStore with atomic update semantics.
// Studies are saved to a temporary directory, then moved atomically on
// Commit, so an interrupted run never leaves a half-written export behind.
type FileStore struct {
	baseDir string
	name    string
	runID   string
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithRunID stamps exported files with the scan run identifier.
func WithRunID(id string) Option {
	return func(s *FileStore) {
		s.runID = id
	}
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the export directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir: baseDir,
		name:    name,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *FileStore) Save(ctx context.Context, study *heatscan.CaseStudy) error {
	if err := study.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), StudyFilename(study))
	content := FormatStudy(study, s.runID)
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// StudyFilename derives a flat markdown file name from the study's detail
// URL slug. Studies without a usable slug fall back to their listing
// position, so link-less cards still export under a stable name.
func StudyFilename(study *heatscan.CaseStudy) string {
	if slug := urlSlug(study.DetailURL); slug != "" {
		return slug + ".md"
	}
	return fmt.Sprintf("project-%d.md", study.Position+1)
}

// urlSlug returns the last path segment of rawURL, reduced to characters
// that are safe in a flat file name. Returns "" when no usable segment
// exists.
func urlSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]

	var b strings.Builder
	for _, r := range last {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return strings.Trim(b.String(), "-_")
}

// FormatStudy formats a study with YAML frontmatter. The body is the
// markdown conversion of the pruned description, falling back to the plain
// text when no conversion is available, with a Summary section appended for
// studies that have one.
func FormatStudy(study *heatscan.CaseStudy, runID string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(study.DetailURL)
	b.WriteString("\ntitle: ")
	b.WriteString(study.Title)
	b.WriteString("\nrelevance: ")
	b.WriteString(string(study.Verdict))
	b.WriteString("\nhash: ")
	b.WriteString(study.ContentHash)
	if runID != "" {
		b.WriteString("\nrun: ")
		b.WriteString(runID)
	}
	b.WriteString("\nscraped: ")
	b.WriteString(time.Now().Format("2006-01-02"))
	b.WriteString("\n---\n\n")

	if study.Markdown != "" {
		b.WriteString(study.Markdown)
	} else {
		b.WriteString(study.Description)
	}

	if study.Summary != nil && *study.Summary != "" {
		b.WriteString("\n\n## Summary\n\n")
		b.WriteString(*study.Summary)
	}

	return b.String()
}

func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	return nil
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
