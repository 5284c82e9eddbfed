package submissions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo implements Repo in memory for development and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	subs map[string]Submission
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{subs: make(map[string]Submission)}
}

func (r *MemoryRepo) Create(ctx context.Context, sub Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = sub
	return nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, submissionID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[submissionID]
	if !ok {
		return ErrNotFound
	}
	sub.Status = status
	r.subs[submissionID] = sub
	return nil
}

func (r *MemoryRepo) Complete(ctx context.Context, submissionID, fileID, storageKey string, sizeBytes int64, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[submissionID]
	if !ok {
		return ErrNotFound
	}
	sub.Status = StatusRendered
	sub.FileID = fileID
	sub.StorageKey = storageKey
	sub.SizeBytes = sizeBytes
	sub.CompletedAt = &completedAt
	r.subs[submissionID] = sub
	return nil
}

func (r *MemoryRepo) Fail(ctx context.Context, submissionID, failureCode string, completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[submissionID]
	if !ok {
		return ErrNotFound
	}
	sub.Status = StatusFailed
	sub.FailureCode = failureCode
	sub.CompletedAt = &completedAt
	r.subs[submissionID] = sub
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, submissionID string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[submissionID]
	if !ok || sub.UserID != userID {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

func (r *MemoryRepo) GetByFileID(ctx context.Context, fileID string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.subs {
		if sub.FileID == fileID && fileID != "" {
			return sub, nil
		}
	}
	return Submission{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []Submission
	for _, sub := range r.subs {
		if sub.UserID == userID {
			all = append(all, sub)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
