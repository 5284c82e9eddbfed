package submissions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, sub Submission) error {
	const query = `
INSERT INTO submissions (
	id, user_id, file_id, storage_key, status, failure_code,
	job_chars, candidate_chars, had_upload, had_photo, size_bytes, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.FileID,
		sub.StorageKey,
		sub.Status,
		sub.FailureCode,
		sub.JobChars,
		sub.CandChars,
		sub.HadUpload,
		sub.HadPhoto,
		sub.SizeBytes,
		sub.CreatedAt,
	)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, submissionID, status string) error {
	const query = `UPDATE submissions SET status = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, submissionID, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Complete(ctx context.Context, submissionID, fileID, storageKey string, sizeBytes int64, completedAt time.Time) error {
	const query = `
UPDATE submissions
SET status = $2, file_id = $3, storage_key = $4, size_bytes = $5, completed_at = $6
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, submissionID, StatusRendered, fileID, storageKey, sizeBytes, completedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Fail(ctx context.Context, submissionID, failureCode string, completedAt time.Time) error {
	const query = `
UPDATE submissions
SET status = $2, failure_code = $3, completed_at = $4
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, submissionID, StatusFailed, failureCode, completedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const selectColumns = `
SELECT id, user_id, file_id, storage_key, status, failure_code,
       job_chars, candidate_chars, had_upload, had_photo, size_bytes,
       created_at, completed_at
FROM submissions`

func (r *PGRepo) GetByID(ctx context.Context, userID, submissionID string) (Submission, error) {
	const query = selectColumns + `
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, submissionID, userID))
}

func (r *PGRepo) GetByFileID(ctx context.Context, fileID string) (Submission, error) {
	const query = selectColumns + `
WHERE file_id = $1
LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, fileID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Submission, error) {
	const query = selectColumns + `
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (Submission, error) {
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return sub, nil
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var completedAt sql.NullTime
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.FileID,
		&sub.StorageKey,
		&sub.Status,
		&sub.FailureCode,
		&sub.JobChars,
		&sub.CandChars,
		&sub.HadUpload,
		&sub.HadPhoto,
		&sub.SizeBytes,
		&sub.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return Submission{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		sub.CompletedAt = &t
	}
	return sub, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
