package resumes

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	// UpdateExtraction stores the extraction artifact key and denormalized
	// text and moves the resume to text_extracted.
	UpdateExtraction(ctx context.Context, resumeID, extractedKey, text string) error
	UpdateStatus(ctx context.Context, resumeID, status string) error
}
