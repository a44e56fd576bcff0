package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"recruit-backend/internal/resumes"
	"recruit-backend/internal/scoring"
	"recruit-backend/internal/shared/storage/object"
)

// ArtifactStore keeps each report as a JSON sibling of the resume object in
// the object store, overwritten in place on re-analysis. This is the default
// binding; it needs no database.
type ArtifactStore struct {
	Objects object.ObjectStore
	Resumes resumes.Repo
}

// ArtifactKey returns the object key of the report artifact for a resume
// storage key.
func ArtifactKey(storageKey string) string {
	return storageKey + ".analysis.json"
}

func (s *ArtifactStore) Save(ctx context.Context, resumeID string, report scoring.Report) error {
	key, err := s.artifactKeyFor(ctx, resumeID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report resume=%s: %w", resumeID, err)
	}
	if _, err := s.Objects.SaveWithKey(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("save report resume=%s: %w", resumeID, err)
	}
	return nil
}

func (s *ArtifactStore) Get(ctx context.Context, resumeID string) (scoring.Report, error) {
	key, err := s.artifactKeyFor(ctx, resumeID)
	if err != nil {
		return scoring.Report{}, err
	}

	body, err := s.Objects.Open(ctx, key)
	if err != nil {
		return scoring.Report{}, ErrNotFound
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return scoring.Report{}, fmt.Errorf("read report resume=%s: %w", resumeID, err)
	}

	var report scoring.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return scoring.Report{}, fmt.Errorf("decode report resume=%s: %w", resumeID, err)
	}
	return report, nil
}

func (s *ArtifactStore) artifactKeyFor(ctx context.Context, resumeID string) (string, error) {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		if err == resumes.ErrNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return ArtifactKey(resume.StorageKey), nil
}

var _ Store = (*ArtifactStore)(nil)
