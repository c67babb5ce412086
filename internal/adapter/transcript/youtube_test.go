package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studypup/studypup/internal/entity"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transcript-with-url" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-rapidapi-key"); got != "rapid-key" {
			t.Errorf("api key header = %q", got)
		}
		q := r.URL.Query()
		if got := q.Get("url"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
			t.Errorf("url param = %q", got)
		}
		if q.Get("flat_text") != "true" || q.Get("lang") != "en" {
			t.Errorf("unexpected query params %v", q)
		}
		w.Write([]byte("  transcript body\n"))
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIKey: "rapid-key", BaseURL: srv.URL})
	text, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "transcript body" {
		t.Fatalf("text = %q", text)
	}
}

func TestFetchUnconfigured(t *testing.T) {
	f := NewFetcher(Config{})
	if _, err := f.Fetch(context.Background(), "abc"); !errors.Is(err, entity.ErrTranscriptNotConfigured) {
		t.Fatalf("expected ErrTranscriptNotConfigured, got %v", err)
	}
}

func TestFetchEmptyTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   "))
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIKey: "rapid-key", BaseURL: srv.URL})
	if _, err := f.Fetch(context.Background(), "abc"); err == nil || !strings.Contains(err.Error(), "no transcript") {
		t.Fatalf("expected no-transcript error, got %v", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIKey: "rapid-key", BaseURL: srv.URL})
	if _, err := f.Fetch(context.Background(), "abc"); err == nil || !strings.Contains(err.Error(), "http 429") {
		t.Fatalf("expected http error, got %v", err)
	}
}
