package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveNamespacesAndSniffsMime(t *testing.T) {
	store := New(t.TempDir())

	payload := []byte("%PDF-1.4 fake document body")
	key, size, mimeType, err := store.Save(context.Background(), "google:123", "resume.pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}
	if mimeType != "application/pdf" {
		t.Fatalf("mime = %q", mimeType)
	}
	if !strings.HasSuffix(key, "_resume.pdf") {
		t.Fatalf("key missing original name: %q", key)
	}
	if strings.Contains(key, "google:123") {
		t.Fatalf("raw user id leaked into key: %q", key)
	}

	body, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()
	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestSaveWithKeyRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	payload := []byte("%PDF-1.4 rendered")
	size, err := store.SaveWithKey(context.Background(), "resumes/resume_abc.pdf", "application/pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", size, len(payload))
	}

	body, err := store.Open(context.Background(), "resumes/resume_abc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()
	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestSaveWithKeyRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.SaveWithKey(context.Background(), "../escape.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Open(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
