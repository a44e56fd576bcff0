package reports

import (
	"context"
	"errors"

	"recruit-backend/internal/scoring"
)

// ErrNotFound is returned when no report has been persisted for a resume.
var ErrNotFound = errors.New("analysis report not found")

// Store persists one analysis report per resume. Save unconditionally
// overwrites any prior report for the same resume; re-analysis replaces, it
// never versions.
type Store interface {
	Save(ctx context.Context, resumeID string, report scoring.Report) error
	Get(ctx context.Context, resumeID string) (scoring.Report, error)
}
