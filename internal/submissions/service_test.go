package submissions

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"resume-builder/internal/assemble"
	"resume-builder/internal/contact"
	"resume-builder/internal/llm"
	"resume-builder/internal/photo"
	"resume-builder/internal/profiles"
)

type fakeLLM struct {
	output string
	err    error
	calls  int
	lastIn llm.GenerateInput
}

func (f *fakeLLM) GenerateResume(ctx context.Context, in llm.GenerateInput) (string, error) {
	f.calls++
	f.lastIn = in
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type fakeRenderer struct {
	err      error
	lastBody string
}

func (f *fakeRenderer) RenderPDF(ctx context.Context, body string) ([]byte, error) {
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	saveErr    error
	savedUsers []string
	savedNames []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	if f.saveErr != nil {
		return "", 0, "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedUsers = append(f.savedUsers, userID)
	f.savedNames = append(f.savedNames, fileName)
	key := "sources/" + userID + "/" + fileName
	f.objects[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (f *fakeStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[storageKey] = data
	return int64(len(data)), nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[storageKey]
	if !ok {
		return nil, errors.New("missing object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestService(llmClient *fakeLLM, renderer *fakeRenderer, store *fakeStore) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo:     repo,
		Profiles: profiles.NewService(profiles.NewMemoryRepo(), 20000),
		Store:    store,
		LLM:      llmClient,
		Renderer: renderer,
		Photos:   photo.NewNormalizer(200, 85),
		Assembly: assemble.NewInstantiator(contact.NewClassifier("")),
	}
	return svc, repo
}

func TestCreateSucceedsEndToEnd(t *testing.T) {
	llmClient := &fakeLLM{output: "```html\n<h1>Jane Doe</h1><p class=\"contact-info\">jane@example.com</p>\n```"}
	renderer := &fakeRenderer{}
	store := newFakeStore()
	svc, repo := newTestService(llmClient, renderer, store)

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "senior backend engineer",
		CandidateText:  "ten years of Go",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if result.Submission.Status != StatusRendered {
		t.Fatalf("status = %s", result.Submission.Status)
	}
	if !strings.HasPrefix(result.Submission.FileID, "resume_") || !strings.HasSuffix(result.Submission.FileID, ".pdf") {
		t.Fatalf("unexpected file id %q", result.Submission.FileID)
	}
	if result.DownloadURL != "/api/v1/resumes/"+result.Submission.FileID+"/download" {
		t.Fatalf("unexpected download url %q", result.DownloadURL)
	}
	if llmClient.lastIn.CandidateText != "ten years of Go" {
		t.Fatalf("candidate text not forwarded: %+v", llmClient.lastIn)
	}
	if strings.Contains(renderer.lastBody, "```") {
		t.Fatalf("fences leaked into rendered body: %s", renderer.lastBody)
	}
	if !strings.Contains(renderer.lastBody, "contact-email") {
		t.Fatalf("contact decoration missing from rendered body: %s", renderer.lastBody)
	}
	if _, ok := store.objects["resumes/"+result.Submission.FileID]; !ok {
		t.Fatal("pdf not written to store")
	}

	stored, err := repo.GetByID(context.Background(), "user-1", result.Submission.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusRendered || stored.CompletedAt == nil {
		t.Fatalf("stored record not completed: %+v", stored)
	}
}

func TestCreateRejectsEmptyJobBeforeGeneration(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>x</h1>"}
	svc, _ := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "   ",
		CandidateText:  "text",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if llmClient.calls != 0 {
		t.Fatalf("generation should not run, got %d calls", llmClient.calls)
	}
}

func TestCreateFailsWithoutCandidateData(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>x</h1>"}
	svc, repo := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	subs, err := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(subs) != 1 || subs[0].Status != StatusFailed || subs[0].FailureCode != FailureInvalidInput {
		t.Fatalf("unexpected record %+v", subs)
	}
}

func TestCreateFallsBackToStoredProfile(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>Jane</h1>"}
	svc, _ := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	if _, err := svc.Profiles.Save(context.Background(), "user-1", "stored profile text", ""); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if llmClient.lastIn.CandidateText != "stored profile text" {
		t.Fatalf("profile not used: %+v", llmClient.lastIn)
	}
}

func TestCreateGenerationFailureLeavesNoObject(t *testing.T) {
	llmClient := &fakeLLM{err: &llm.ProviderError{StatusCode: 500, Message: "upstream exploded"}}
	store := newFakeStore()
	svc, repo := newTestService(llmClient, &fakeRenderer{}, store)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
	})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatal("no object should be stored on generation failure")
	}

	subs, _ := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if len(subs) != 1 || subs[0].FailureCode != FailureGeneration {
		t.Fatalf("unexpected record %+v", subs)
	}
}

func TestCreateRenderFailure(t *testing.T) {
	svc, repo := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{err: errors.New("chrome crashed")}, newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
	})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
	subs, _ := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if len(subs) != 1 || subs[0].FailureCode != FailureRender {
		t.Fatalf("unexpected record %+v", subs)
	}
}

func TestCreateDegradesOnBadPhoto(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, _ := newTestService(&fakeLLM{output: "<h1>Jane</h1><img src=\"[[PROFILE_PHOTO]]\">"}, renderer, newFakeStore())

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
		Photo:          []byte("not an image"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Submission.Status != StatusRendered {
		t.Fatalf("status = %s", result.Submission.Status)
	}
	if strings.Contains(renderer.lastBody, "[[PROFILE_PHOTO]]") {
		t.Fatalf("placeholder leaked: %s", renderer.lastBody)
	}
}

func TestCreateRetainsProfileFromInlineUpload(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		Upload:         []byte("resume text from upload"),
		UploadMime:     "text/plain",
		UploadName:     "resume.txt",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	profile, err := svc.Profiles.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("profile not retained: %v", err)
	}
	if profile.ResumeText != "resume text from upload" || profile.SourceFileName != "resume.txt" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestCreateFallsBackToPastedTextWhenExtractionFails(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>Jane</h1>"}
	svc, repo := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "pasted fallback text",
		Upload:         []byte("not a real pdf"),
		UploadMime:     "application/pdf",
		UploadName:     "resume.pdf",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Submission.Status != StatusRendered {
		t.Fatalf("status = %s", result.Submission.Status)
	}
	if llmClient.lastIn.CandidateText != "pasted fallback text" {
		t.Fatalf("pasted text not used after failed extraction: %+v", llmClient.lastIn)
	}

	// The unusable upload must not be retained as the profile.
	if _, err := svc.Profiles.Get(context.Background(), "user-1"); !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("expected no retained profile, got %v", err)
	}

	subs, _ := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if len(subs) != 1 || subs[0].Status != StatusRendered {
		t.Fatalf("unexpected record %+v", subs)
	}
}

func TestCreateFailsWhenUploadUnusableAndNothingPasted(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>x</h1>"}
	svc, repo := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		Upload:         []byte("not a real pdf"),
		UploadMime:     "application/pdf",
		UploadName:     "resume.pdf",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if llmClient.calls != 0 {
		t.Fatalf("generation should not run, got %d calls", llmClient.calls)
	}
	subs, _ := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if len(subs) != 1 || subs[0].FailureCode != FailureInvalidInput {
		t.Fatalf("unexpected record %+v", subs)
	}
}

func TestCreateStoredProfileOutranksPastedText(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>Jane</h1>"}
	svc, _ := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	if _, err := svc.Profiles.Save(context.Background(), "user-1", "stored profile text", ""); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "pasted text",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if llmClient.lastIn.CandidateText != "stored profile text" {
		t.Fatalf("expected stored profile to win, got %+v", llmClient.lastIn)
	}
}

func TestCreateFreshUploadOutranksStoredProfile(t *testing.T) {
	llmClient := &fakeLLM{output: "<h1>Jane</h1>"}
	svc, _ := newTestService(llmClient, &fakeRenderer{}, newFakeStore())

	if _, err := svc.Profiles.Save(context.Background(), "user-1", "stored profile text", ""); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		Upload:         []byte("uploaded resume text"),
		UploadMime:     "text/plain",
		UploadName:     "resume.txt",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if llmClient.lastIn.CandidateText != "uploaded resume text" {
		t.Fatalf("expected fresh upload to win, got %+v", llmClient.lastIn)
	}
}

func TestCreateArchivesUploadForAccount(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, store)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "google:123",
		JobDescription: "backend engineer",
		Upload:         []byte("resume text from upload"),
		UploadMime:     "text/plain",
		UploadName:     "resume.txt",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(store.savedUsers) != 1 || store.savedUsers[0] != "google:123" {
		t.Fatalf("source document not archived: %+v", store.savedUsers)
	}
	if store.savedNames[0] != "resume.txt" {
		t.Fatalf("unexpected archived name %q", store.savedNames[0])
	}
}

func TestCreateGuestNeverPersistsCandidateData(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, store)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:         "guest:abc",
		IsGuest:        true,
		JobDescription: "backend engineer",
		Upload:         []byte("guest resume text"),
		UploadMime:     "text/plain",
		UploadName:     "resume.txt",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(store.savedUsers) != 0 {
		t.Fatalf("guest upload must not be archived: %+v", store.savedUsers)
	}
	if _, err := svc.Profiles.Get(context.Background(), "guest:abc"); !errors.Is(err, profiles.ErrNotFound) {
		t.Fatalf("guest profile must not be retained, got %v", err)
	}
}

func TestOpenResumeEnforcesOwnership(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, store)

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	body, sub, err := svc.OpenResume(context.Background(), "user-1", result.Submission.FileID)
	if err != nil {
		t.Fatalf("OpenResume: %v", err)
	}
	body.Close()
	if sub.ID != result.Submission.ID {
		t.Fatalf("unexpected submission %+v", sub)
	}

	if _, _, err := svc.OpenResume(context.Background(), "user-2", result.Submission.FileID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, _, err := svc.OpenResume(context.Background(), "user-1", "../../etc/passwd"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed id, got %v", err)
	}
}
