package submissions

import (
	"context"
	"time"
)

// Repo defines persistence operations for submissions.
type Repo interface {
	Create(ctx context.Context, sub Submission) error
	UpdateStatus(ctx context.Context, submissionID, status string) error
	Complete(ctx context.Context, submissionID, fileID, storageKey string, sizeBytes int64, completedAt time.Time) error
	Fail(ctx context.Context, submissionID, failureCode string, completedAt time.Time) error
	GetByID(ctx context.Context, userID, submissionID string) (Submission, error)
	GetByFileID(ctx context.Context, fileID string) (Submission, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Submission, error)
}
