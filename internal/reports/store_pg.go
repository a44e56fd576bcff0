package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"recruit-backend/internal/scoring"
)

// PGStore keeps reports as JSONB rows keyed by resume id.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Save(ctx context.Context, resumeID string, report scoring.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report resume=%s: %w", resumeID, err)
	}

	const query = `
INSERT INTO analysis_reports (resume_id, report, provider, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (resume_id) DO UPDATE SET
  report = EXCLUDED.report,
  provider = EXCLUDED.provider,
  updated_at = now()`
	_, err = s.DB.ExecContext(ctx, query, resumeID, payload, report.Provider)
	return err
}

func (s *PGStore) Get(ctx context.Context, resumeID string) (scoring.Report, error) {
	const query = `
SELECT report
FROM analysis_reports
WHERE resume_id = $1
LIMIT 1`
	var raw []byte
	err := s.DB.QueryRowContext(ctx, query, resumeID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scoring.Report{}, ErrNotFound
		}
		return scoring.Report{}, err
	}

	var report scoring.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return scoring.Report{}, fmt.Errorf("decode report resume=%s: %w", resumeID, err)
	}
	return report, nil
}

var _ Store = (*PGStore)(nil)
