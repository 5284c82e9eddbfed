package feedback

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, fb Feedback) error {
	const query = `
INSERT INTO feedback (id, user_id, file_id, message, created_at)
VALUES ($1, $2, $3, $4, now())`
	_, err := r.DB.ExecContext(ctx, query, fb.ID, fb.UserID, fb.FileID, fb.Message)
	return err
}

func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Feedback, error) {
	const query = `
SELECT id, user_id, file_id, message, created_at
FROM feedback
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.FileID, &fb.Message, &fb.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
