package profiles

import (
	"context"
	"errors"
	"strings"

	"resume-builder/internal/shared/util"
)

// ErrTooLong is returned when an explicit save exceeds the profile limit.
var ErrTooLong = errors.New("profile text too long")

type Service struct {
	Repo     Repo
	MaxChars int
}

func NewService(repo Repo, maxChars int) *Service {
	return &Service{Repo: repo, MaxChars: maxChars}
}

// Save stores the profile text a user edited directly. Oversized text is
// rejected rather than silently truncated since the user is present to fix it.
func (s *Service) Save(ctx context.Context, userID, resumeText, sourceFileName string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	if s.MaxChars > 0 && len([]rune(resumeText)) > s.MaxChars {
		return Profile{}, ErrTooLong
	}
	p := Profile{UserID: userID, ResumeText: resumeText, SourceFileName: sourceFileName}
	if err := s.Repo.Put(ctx, p); err != nil {
		return Profile{}, err
	}
	return s.Repo.Get(ctx, userID)
}

// Retain captures extracted text from a submission upload so future
// submissions can omit the document. It truncates instead of failing; the
// caller treats this as best effort.
func (s *Service) Retain(ctx context.Context, userID, resumeText, sourceFileName string) error {
	if s == nil || s.Repo == nil {
		return errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(resumeText) == "" {
		return nil
	}
	if s.MaxChars > 0 {
		resumeText = util.TruncateRunes(resumeText, s.MaxChars)
	}
	return s.Repo.Put(ctx, Profile{UserID: userID, ResumeText: resumeText, SourceFileName: sourceFileName})
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	return s.Repo.Get(ctx, userID)
}
