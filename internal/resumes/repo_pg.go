package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, file_name, storage_key, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.FileName,
		resume.StorageKey,
		resume.Status,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, file_name, storage_key, extracted_text_key, extracted_text, status, created_at, updated_at
FROM resumes
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, resumeID)
	resume, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, file_name, storage_key, extracted_text_key, extracted_text, status, created_at, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateExtraction(ctx context.Context, resumeID, extractedKey, text string) error {
	const query = `
UPDATE resumes
SET extracted_text_key = $1, extracted_text = $2, status = $3, updated_at = now()
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, extractedKey, text, StatusTextExtracted, resumeID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, resumeID, status string) error {
	const query = `
UPDATE resumes
SET status = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, status, resumeID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var extractedKey sql.NullString
	var extractedText sql.NullString
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.FileName,
		&resume.StorageKey,
		&extractedKey,
		&extractedText,
		&resume.Status,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if extractedKey.Valid {
		resume.ExtractedTextKey = extractedKey.String
	}
	if extractedText.Valid {
		resume.ExtractedText = extractedText.String
	}
	return resume, nil
}

var _ Repo = (*PGRepo)(nil)
