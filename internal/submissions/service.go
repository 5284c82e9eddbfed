package submissions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/assemble"
	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/photo"
	"resume-builder/internal/profiles"
	"resume-builder/internal/render"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

// resumeKeyPrefix groups rendered PDFs in the object store.
const resumeKeyPrefix = "resumes/"

// Service runs the tailoring pipeline end to end. A submission is processed
// synchronously within the request; renders take seconds, not minutes.
type Service struct {
	Repo     Repo
	Profiles *profiles.Service
	Store    object.ObjectStore
	LLM      llm.Client
	Renderer render.Renderer
	Photos   *photo.Normalizer
	Assembly *assemble.Instantiator
}

// CreateInput carries everything a submission request may include. Upload
// and Photo are raw multipart payloads; empty slices mean absent. IsGuest
// gates persistence: guest candidate data is never retained.
type CreateInput struct {
	UserID         string
	RequestID      string
	IsGuest        bool
	JobDescription string
	CandidateText  string
	Upload         []byte
	UploadMime     string
	UploadName     string
	Photo          []byte
}

// CreateResult is returned to the handler on success.
type CreateResult struct {
	Submission  Submission
	DownloadURL string
}

// Create runs the pipeline. Returned errors are already classified; the
// handler maps them to generic API responses while the detail stays in the
// operational log.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return CreateResult{}, fmt.Errorf("%w: missing user", ErrInvalidInput)
	}
	job := strings.TrimSpace(in.JobDescription)
	if job == "" {
		return CreateResult{}, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}

	sub := Submission{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Status:    StatusReceived,
		JobChars:  len([]rune(job)),
		HadUpload: len(in.Upload) > 0,
		HadPhoto:  len(in.Photo) > 0,
		CreatedAt: time.Now().UTC(),
	}
	// Record keeping is best effort: a submission proceeds even when its
	// bookkeeping row cannot be written.
	tracked := true
	if err := s.Repo.Create(ctx, sub); err != nil {
		tracked = false
		telemetry.Error("submission.track_failed", map[string]any{
			"request_id":    in.RequestID,
			"user_id":       in.UserID,
			"submission_id": sub.ID,
			"error":         err.Error(),
		})
	}
	metrics.IncSubmissionStarted()
	startedAt := metrics.NowMillis()

	candidate, err := s.resolveCandidate(ctx, in)
	if err != nil {
		return CreateResult{}, s.fail(ctx, in, sub, tracked, FailureInvalidInput, err, fmt.Errorf("%w: no usable candidate data", ErrInvalidInput))
	}
	sub.CandChars = len([]rune(candidate))
	s.advance(ctx, in, sub, tracked, StatusDataResolved)

	photoURI := s.normalizePhoto(in, sub)

	raw, err := s.LLM.GenerateResume(ctx, llm.GenerateInput{
		CandidateText:  candidate,
		JobDescription: job,
	})
	if err != nil {
		metrics.IncGenerationFailed()
		return CreateResult{}, s.fail(ctx, in, sub, tracked, FailureGeneration, err, ErrGeneration)
	}
	s.advance(ctx, in, sub, tracked, StatusGenerated)

	body := s.Assembly.Instantiate(raw, photoURI)
	s.advance(ctx, in, sub, tracked, StatusAssembled)

	pdf, err := s.Renderer.RenderPDF(ctx, body)
	if err != nil {
		metrics.IncRenderFailed()
		return CreateResult{}, s.fail(ctx, in, sub, tracked, FailureRender, err, ErrRender)
	}

	fileID := newFileID()
	storageKey := resumeKeyPrefix + fileID
	size, err := s.Store.SaveWithKey(ctx, storageKey, "application/pdf", bytes.NewReader(pdf))
	if err != nil {
		return CreateResult{}, s.fail(ctx, in, sub, tracked, FailureStorage, err, ErrStorage)
	}

	completedAt := time.Now().UTC()
	sub.FileID = fileID
	sub.StorageKey = storageKey
	sub.SizeBytes = size
	sub.Status = StatusRendered
	sub.CompletedAt = &completedAt
	if tracked {
		if err := s.Repo.Complete(ctx, sub.ID, fileID, storageKey, size, completedAt); err != nil {
			telemetry.Error("submission.track_failed", map[string]any{
				"request_id":    in.RequestID,
				"user_id":       in.UserID,
				"submission_id": sub.ID,
				"error":         err.Error(),
			})
		}
	}

	metrics.IncSubmissionRendered()
	metrics.ObserveSubmissionDurationMs(metrics.NowMillis() - startedAt)
	telemetry.Info("submission.complete", map[string]any{
		"request_id":     in.RequestID,
		"user_id":        in.UserID,
		"submission_id":  sub.ID,
		"file_id":        fileID,
		"pipeline_stage": StatusRendered,
		"size_bytes":     size,
		"had_upload":     sub.HadUpload,
		"had_photo":      sub.HadPhoto,
	})

	return CreateResult{
		Submission:  sub,
		DownloadURL: "/api/v1/resumes/" + fileID + "/download",
	}, nil
}

// resolveCandidate picks the candidate text source in priority order:
// freshly uploaded document, retained profile for an authenticated caller
// with no new upload, raw pasted text. An upload that cannot be converted
// degrades to the pasted text instead of failing the submission.
func (s *Service) resolveCandidate(ctx context.Context, in CreateInput) (string, error) {
	if len(in.Upload) > 0 {
		text, err := extract.FromBytes(ctx, in.Upload, in.UploadMime, in.UploadName)
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("upload %q produced no text", in.UploadName)
		}
		if err == nil {
			s.persistSource(ctx, in, text)
			return text, nil
		}
		telemetry.Warn("upload.extract_failed", map[string]any{
			"request_id": in.RequestID,
			"user_id":    in.UserID,
			"file_name":  in.UploadName,
			"mime_type":  in.UploadMime,
			"error":      err.Error(),
		})
		if pasted := strings.TrimSpace(in.CandidateText); pasted != "" {
			return pasted, nil
		}
		return "", fmt.Errorf("upload unusable and no pasted text: %w", err)
	}
	if !in.IsGuest && s.Profiles != nil {
		profile, err := s.Profiles.Get(ctx, in.UserID)
		if err == nil && strings.TrimSpace(profile.ResumeText) != "" {
			return profile.ResumeText, nil
		}
	}
	if text := strings.TrimSpace(in.CandidateText); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("no candidate data provided and no stored profile")
}

// persistSource retains the extracted text and archives the source document
// for authenticated callers. Guest data is never persisted, and failures
// here never abort the submission.
func (s *Service) persistSource(ctx context.Context, in CreateInput, text string) {
	if in.IsGuest {
		return
	}
	if s.Profiles != nil {
		if err := s.Profiles.Retain(ctx, in.UserID, text, in.UploadName); err != nil {
			telemetry.Warn("profile.retain_failed", map[string]any{
				"request_id": in.RequestID,
				"user_id":    in.UserID,
				"error":      err.Error(),
			})
		}
	}
	if s.Store != nil {
		if _, _, _, err := s.Store.Save(ctx, in.UserID, in.UploadName, bytes.NewReader(in.Upload)); err != nil {
			telemetry.Warn("upload.save_failed", map[string]any{
				"request_id": in.RequestID,
				"user_id":    in.UserID,
				"file_name":  in.UploadName,
				"error":      err.Error(),
			})
		}
	}
}

// normalizePhoto converts the uploaded photo to its embedded form. Photo
// problems never fail the submission; the resume goes out without one.
func (s *Service) normalizePhoto(in CreateInput, sub Submission) string {
	if len(in.Photo) == 0 || s.Photos == nil {
		return ""
	}
	uri, err := s.Photos.Normalize(in.Photo)
	if err != nil {
		telemetry.Warn("photo.normalize_failed", map[string]any{
			"request_id":    in.RequestID,
			"user_id":       in.UserID,
			"submission_id": sub.ID,
			"error":         err.Error(),
		})
		return ""
	}
	return uri
}

// Get returns a submission owned by the user.
func (s *Service) Get(ctx context.Context, userID, submissionID string) (Submission, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(submissionID) == "" {
		return Submission{}, fmt.Errorf("%w: user and submission id are required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, submissionID)
}

// List returns the user's submissions newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Submission, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenResume streams a rendered PDF after checking ownership.
func (s *Service) OpenResume(ctx context.Context, userID, fileID string) (io.ReadCloser, Submission, error) {
	if !validFileID(fileID) {
		return nil, Submission{}, fmt.Errorf("%w: malformed file id", ErrInvalidInput)
	}
	sub, err := s.Repo.GetByFileID(ctx, fileID)
	if err != nil {
		return nil, Submission{}, err
	}
	if sub.UserID != userID {
		return nil, Submission{}, ErrNotFound
	}
	body, err := s.Store.Open(ctx, sub.StorageKey)
	if err != nil {
		return nil, Submission{}, fmt.Errorf("open %s: %w", sub.StorageKey, err)
	}
	return body, sub, nil
}

func (s *Service) advance(ctx context.Context, in CreateInput, sub Submission, tracked bool, status string) {
	if tracked {
		if err := s.Repo.UpdateStatus(ctx, sub.ID, status); err != nil {
			telemetry.Error("submission.track_failed", map[string]any{
				"request_id":    in.RequestID,
				"user_id":       in.UserID,
				"submission_id": sub.ID,
				"error":         err.Error(),
			})
		}
	}
	telemetry.Info("submission.status", map[string]any{
		"request_id":     in.RequestID,
		"user_id":        in.UserID,
		"submission_id":  sub.ID,
		"pipeline_stage": status,
	})
}

// fail records the failure and returns the sanitized sentinel the handler
// exposes. cause carries the detail and stays in the log.
func (s *Service) fail(ctx context.Context, in CreateInput, sub Submission, tracked bool, failureCode string, cause error, sentinel error) error {
	metrics.IncSubmissionFailed()
	if tracked {
		if err := s.Repo.Fail(ctx, sub.ID, failureCode, time.Now().UTC()); err != nil {
			telemetry.Error("submission.track_failed", map[string]any{
				"request_id":    in.RequestID,
				"user_id":       in.UserID,
				"submission_id": sub.ID,
				"error":         err.Error(),
			})
		}
	}
	fields := map[string]any{
		"request_id":    in.RequestID,
		"user_id":       in.UserID,
		"submission_id": sub.ID,
		"failure_code":  failureCode,
		"error":         cause.Error(),
	}
	if llm.IsAuthError(cause) {
		fields["llm_auth"] = true
	}
	telemetry.Error("submission.failed", fields)
	return sentinel
}

func newFileID() string {
	return "resume_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".pdf"
}

func validFileID(fileID string) bool {
	if len(fileID) != len("resume_")+32+len(".pdf") {
		return false
	}
	if !strings.HasPrefix(fileID, "resume_") || !strings.HasSuffix(fileID, ".pdf") {
		return false
	}
	hexPart := fileID[len("resume_") : len(fileID)-len(".pdf")]
	for _, r := range hexPart {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
