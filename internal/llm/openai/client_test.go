package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-builder/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestGenerateResumeSuccess(t *testing.T) {
	var gotReq chatRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<div class=\"resume-wrapper\"></div>"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	})

	out, err := c.GenerateResume(context.Background(), llm.GenerateInput{
		CandidateText:  "ten years of Go",
		JobDescription: "backend engineer",
	})
	if err != nil {
		t.Fatalf("GenerateResume: %v", err)
	}
	if out != `<div class="resume-wrapper"></div>` {
		t.Fatalf("unexpected output %q", out)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Temperature == nil || *gotReq.Temperature != 0.5 {
		t.Errorf("temperature = %v, want 0.5", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages %+v", gotReq.Messages)
	}
	user := gotReq.Messages[1].Content
	if !strings.Contains(user, "ten years of Go") || !strings.Contains(user, "backend engineer") {
		t.Errorf("inputs missing from user prompt")
	}
	if !strings.Contains(user, "[[PROFILE_PHOTO]]") {
		t.Errorf("photo placeholder missing from prompt template")
	}
}

func TestGenerateResumeProviderError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"authentication_error"}}`))
	})

	_, err := c.GenerateResume(context.Background(), llm.GenerateInput{CandidateText: "x", JobDescription: "y"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !llm.IsAuthError(err) {
		t.Fatalf("expected auth error classification, got %v", err)
	}
}

func TestGenerateResumeEmptyChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := c.GenerateResume(context.Background(), llm.GenerateInput{CandidateText: "x", JobDescription: "y"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model", ""); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := NewClient("key", "", ""); err == nil {
		t.Error("expected error for missing model")
	}
	c, err := NewClient("key", "model", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want default", c.baseURL)
	}
}
