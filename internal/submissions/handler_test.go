package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newHandlerRouter(svc *Service, userID string, guest bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("isGuest", guest)
		c.Next()
	})
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, data := range files {
		part, err := w.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateSubmissionEndpoint(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>Jane</h1>"}, &fakeRenderer{}, newFakeStore())
	router := newHandlerRouter(svc, "user-1", false)

	body, contentType := multipartBody(t, map[string]string{
		"job-post":  "backend engineer",
		"user-data": "ten years of Go",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}

	var out struct {
		SubmissionID string `json:"submissionId"`
		FileID       string `json:"fileId"`
		DownloadURL  string `json:"downloadUrl"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.SubmissionID == "" || out.FileID == "" || out.DownloadURL == "" {
		t.Fatalf("incomplete response %+v", out)
	}
}

func TestCreateSubmissionMissingJob(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, newFakeStore())
	router := newHandlerRouter(svc, "user-1", false)

	body, contentType := multipartBody(t, map[string]string{"user-data": "text"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestCreateSubmissionGenerationErrorIsGeneric(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{err: io.ErrUnexpectedEOF}, &fakeRenderer{}, newFakeStore())
	router := newHandlerRouter(svc, "user-1", false)

	body, contentType := multipartBody(t, map[string]string{
		"job-post":  "backend engineer",
		"user-data": "text",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
	var out struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Error.Message != "resume generation failed" {
		t.Fatalf("error detail leaked: %+v", out)
	}
}

func TestDownloadEndpoint(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>Jane</h1>"}, &fakeRenderer{}, newFakeStore())
	router := newHandlerRouter(svc, "user-1", false)

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+result.Submission.FileID+"/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type = %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="`+result.Submission.FileID+`"` {
		t.Fatalf("content disposition = %q", got)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("unexpected body prefix %q", resp.Body.String()[:8])
	}
}

func TestDownloadOtherUserIsNotFound(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>Jane</h1>"}, &fakeRenderer{}, newFakeStore())

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	router := newHandlerRouter(svc, "user-2", false)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+result.Submission.FileID+"/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestListRequiresLogin(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, newFakeStore())
	router := newHandlerRouter(svc, "guest:abc", true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/submissions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestGetSubmissionEndpoint(t *testing.T) {
	svc, _ := newTestService(&fakeLLM{output: "<h1>x</h1>"}, &fakeRenderer{}, newFakeStore())
	router := newHandlerRouter(svc, "user-1", false)

	result, err := svc.Create(context.Background(), CreateInput{
		UserID:         "user-1",
		JobDescription: "backend engineer",
		CandidateText:  "text",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/submissions/"+result.Submission.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}

	var sub Submission
	if err := json.Unmarshal(resp.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.ID != result.Submission.ID || sub.Status != StatusRendered {
		t.Fatalf("unexpected submission %+v", sub)
	}
}
