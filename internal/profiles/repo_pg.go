package profiles

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Put(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO profiles (user_id, resume_text, source_file_name, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id) DO UPDATE SET
  resume_text = EXCLUDED.resume_text,
  source_file_name = EXCLUDED.source_file_name,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, profile.UserID, profile.ResumeText, profile.SourceFileName)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, resume_text, source_file_name, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var p Profile
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.ResumeText,
		&p.SourceFileName,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}
