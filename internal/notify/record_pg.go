package notify

import (
	"context"
	"database/sql"
	"errors"
)

// PGRecordStore implements RecordStore using Postgres.
type PGRecordStore struct {
	DB *sql.DB
}

func (s *PGRecordStore) Create(ctx context.Context, record DispatchRecord) error {
	const query = `
INSERT INTO notification_dispatches (task_id, resume_id, recipient, template, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := s.DB.ExecContext(ctx, query,
		record.TaskID,
		record.ResumeID,
		record.Recipient,
		record.Template,
		record.Status,
	)
	return err
}

func (s *PGRecordStore) UpdateOutcome(ctx context.Context, taskID, status, errMessage string) error {
	const query = `
UPDATE notification_dispatches
SET status = $1, error = $2, updated_at = now()
WHERE task_id = $3`
	var errValue any
	if errMessage != "" {
		errValue = errMessage
	}
	res, err := s.DB.ExecContext(ctx, query, status, errValue, taskID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PGRecordStore) GetByTaskID(ctx context.Context, taskID string) (DispatchRecord, error) {
	const query = `
SELECT task_id, resume_id, recipient, template, status, error, created_at, updated_at
FROM notification_dispatches
WHERE task_id = $1
LIMIT 1`
	var record DispatchRecord
	var errMessage sql.NullString
	err := s.DB.QueryRowContext(ctx, query, taskID).Scan(
		&record.TaskID,
		&record.ResumeID,
		&record.Recipient,
		&record.Template,
		&record.Status,
		&errMessage,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DispatchRecord{}, ErrRecordNotFound
		}
		return DispatchRecord{}, err
	}
	if errMessage.Valid {
		record.Error = errMessage.String
	}
	return record, nil
}

var _ RecordStore = (*PGRecordStore)(nil)
