package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/studypup/studypup/internal/entity"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// chatStub serves /v1/chat/completions with the given message content.
func chatStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{APIKey: "test-key", BaseURL: baseURL, Model: "gpt-test", MaxRetries: 2}, testLogger())
}

func TestChatRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	content, err := c.chat(context.Background(), []chatMessage{{Role: "user", Content: "hi"}}, chatOptions{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if content != "ok" {
		t.Fatalf("content = %q", content)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestChatDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "bad request"}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.chat(context.Background(), []chatMessage{{Role: "user", Content: "hi"}}, chatOptions{}); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d attempts", calls.Load())
	}
}

func TestChatUnconfigured(t *testing.T) {
	c := NewClient(Config{}, testLogger())
	if _, err := c.chat(context.Background(), nil, chatOptions{}); !errors.Is(err, entity.ErrAINotConfigured) {
		t.Fatalf("expected ErrAINotConfigured, got %v", err)
	}
}

func TestExtractSanitizesDanglingDependencies(t *testing.T) {
	payload := `{
		"title": "Cell Biology",
		"emoji": "🧫",
		"concepts": [
			{"id": "osmosis", "definition": "Water moves across membranes.", "dependencies": ["diffusion", "never_extracted"]},
			{"id": "diffusion", "definition": "Particles spread out.", "dependencies": []}
		]
	}`
	srv := chatStub(t, payload)
	defer srv.Close()

	ext := NewConceptExtractor(newTestClient(srv.URL))
	concepts, title, emoji, err := ext.Extract(context.Background(), "some content")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if title != "Cell Biology" || emoji != "🧫" {
		t.Fatalf("enrichment missing: %q %q", title, emoji)
	}
	if len(concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %d", len(concepts))
	}
	if len(concepts[0].Dependencies) != 1 || concepts[0].Dependencies[0] != "diffusion" {
		t.Fatalf("dangling dependency not dropped: %v", concepts[0].Dependencies)
	}
}

func TestExtractRejectsEmptyGraph(t *testing.T) {
	srv := chatStub(t, `{"title": "Empty", "emoji": "🫥", "concepts": []}`)
	defer srv.Close()

	ext := NewConceptExtractor(newTestClient(srv.URL))
	if _, _, _, err := ext.Extract(context.Background(), "content"); err == nil || !strings.Contains(err.Error(), "no concepts") {
		t.Fatalf("expected no-concepts error, got %v", err)
	}
}

func TestExtractUnconfigured(t *testing.T) {
	ext := NewConceptExtractor(NewClient(Config{}, testLogger()))
	if _, _, _, err := ext.Extract(context.Background(), "content"); !errors.Is(err, entity.ErrAINotConfigured) {
		t.Fatalf("expected ErrAINotConfigured, got %v", err)
	}
}

func testGraph() *entity.KnowledgeGraph {
	return &entity.KnowledgeGraph{
		ID: "kg_test",
		Concepts: []entity.Concept{
			{ID: "osmosis", Definition: "Water moves across membranes."},
			{ID: "diffusion", Definition: "Particles spread out."},
		},
	}
}

func TestGenerateFlashcardsFiltersAndFallsBack(t *testing.T) {
	payload := `{
		"flashcards": [
			{"concept_id": "osmosis", "front": "What is osmosis?", "back": "Water movement."},
			{"concept_id": "invented_by_model", "front": "Q", "back": "A"},
			{"concept_id": "diffusion", "front": "", "back": "dropped"}
		]
	}`
	srv := chatStub(t, payload)
	defer srv.Close()

	gen := NewMaterialGenerator(newTestClient(srv.URL))
	out, err := gen.Generate(context.Background(), testGraph(), []entity.MaterialType{entity.MaterialTypeFlashcards})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Flashcards) != 2 {
		t.Fatalf("expected 2 cards after filtering, got %d", len(out.Flashcards))
	}
	if out.Flashcards[0].ID != "fc_ai_kg_test_0" {
		t.Fatalf("unexpected card id %q", out.Flashcards[0].ID)
	}
	// model-invented concept ids fall back to the first concept
	if out.Flashcards[1].ConceptID != "osmosis" {
		t.Fatalf("expected fallback concept id, got %q", out.Flashcards[1].ConceptID)
	}
}

func TestGenerateQuizValidatesShape(t *testing.T) {
	payload := `{
		"questions": [
			{"concept_id": "osmosis", "question": "Q1", "options": ["a", "b", "c", "d"], "correct_answer_index": 1},
			{"concept_id": "osmosis", "question": "Q2", "options": ["only one"], "correct_answer_index": 0},
			{"concept_id": "osmosis", "question": "Q3", "options": ["a", "b"], "correct_answer_index": 5}
		]
	}`
	srv := chatStub(t, payload)
	defer srv.Close()

	gen := NewMaterialGenerator(newTestClient(srv.URL))
	out, err := gen.Generate(context.Background(), testGraph(), []entity.MaterialType{entity.MaterialTypeQuiz})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.QuizQuestions) != 1 || out.QuizQuestions[0].Question != "Q1" {
		t.Fatalf("malformed questions should be dropped: %+v", out.QuizQuestions)
	}
}

func TestGenerateFailsBatchOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "boom"}}`)
	}))
	defer srv.Close()

	gen := NewMaterialGenerator(newTestClient(srv.URL))
	if _, err := gen.Generate(context.Background(), testGraph(), []entity.MaterialType{entity.MaterialTypeFlashcards, entity.MaterialTypeNotes}); err == nil {
		t.Fatal("a failing type must fail the whole batch")
	}
}

func TestReviseNotesRejectsBrokenStructure(t *testing.T) {
	srv := chatStub(t, `{"notes": "just some text without headings"}`)
	defer srv.Close()

	gen := NewMaterialGenerator(newTestClient(srv.URL))
	if _, err := gen.ReviseNotes(context.Background(), "## 📌 Title\nx", "shorten"); err == nil || !strings.Contains(err.Error(), "structure") {
		t.Fatalf("expected structure error, got %v", err)
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file field: %v", err)
		} else {
			file.Close()
			if header.Filename != "lecture.m4a" {
				t.Errorf("filename = %q", header.Filename)
			}
		}
		fmt.Fprint(w, `{"text": " spoken words "}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.Transcribe(context.Background(), "lecture.m4a", strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "spoken words" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractTextFromImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "data:image/png;base64,") {
			t.Error("expected a data URL in the request body")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "  board text\n"}}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.ExtractTextFromImage(context.Background(), "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if text != "board text" {
		t.Fatalf("text = %q", text)
	}
}
