package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/util"
)

const maxMessageChars = 4000

var ErrEmptyMessage = errors.New("feedback message is empty")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Submit records a feedback entry. userID may be empty for anonymous
// feedback; messages are capped rather than rejected since feedback is the
// one place losing a tail beats losing the whole note.
func (s *Service) Submit(ctx context.Context, userID, fileID, message string) (Feedback, error) {
	if s == nil || s.Repo == nil {
		return Feedback{}, errors.New("feedback service not configured")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return Feedback{}, ErrEmptyMessage
	}
	fb := Feedback{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(userID),
		FileID:    strings.TrimSpace(fileID),
		Message:   util.TruncateRunes(message, maxMessageChars),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, fb); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Feedback, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("feedback service not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.ListRecent(ctx, limit)
}
