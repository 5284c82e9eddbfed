package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-builder/internal/shared/config"
)

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpointIsDevOnly(t *testing.T) {
	dev := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	req.Header.Set("X-Guest-Id", "metrics-check")
	resp := httptest.NewRecorder()
	dev.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev, got %d", resp.Code)
	}

	prod := NewRouter(RouterDeps{Config: config.Config{Env: "production"}})
	resp = httptest.NewRecorder()
	prod.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 in production, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Errorf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
