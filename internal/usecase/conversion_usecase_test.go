package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studypup/studypup/internal/entity"
)

type mockTranscriber struct {
	text     string
	err      error
	filename string
}

func (m *mockTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	m.filename = filename
	return m.text, m.err
}

type mockOCR struct {
	text     string
	err      error
	mimeType string
}

func (m *mockOCR) ExtractTextFromImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	m.mimeType = mimeType
	return m.text, m.err
}

type mockTranscripts struct {
	text    string
	err     error
	videoID string
}

func (m *mockTranscripts) Fetch(ctx context.Context, videoID string) (string, error) {
	m.videoID = videoID
	return m.text, m.err
}

func newConversion(tr *mockTranscriber, ocr *mockOCR, yt *mockTranscripts) ConversionUsecase {
	return NewConversionUsecase(tr, ocr, yt, testLogger())
}

func TestConvertToText_NotesPassThrough(t *testing.T) {
	uc := newConversion(&mockTranscriber{}, &mockOCR{}, &mockTranscripts{})

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "lecture notes", Type: entity.ContentTypeNotes, Text: "The cell membrane."},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := "--- lecture notes ---\nThe cell membrane."
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestConvertToText_YouTubeLink(t *testing.T) {
	yt := &mockTranscripts{text: "transcript text"}
	uc := newConversion(&mockTranscriber{}, &mockOCR{}, yt)

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "video", Type: entity.ContentTypeLink, Text: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if yt.videoID != "dQw4w9WgXcQ" {
		t.Fatalf("fetched video id %q", yt.videoID)
	}
	if !strings.Contains(out, "transcript text") {
		t.Fatalf("missing transcript in %q", out)
	}
}

func TestConvertToText_NonYouTubeLinkMarker(t *testing.T) {
	uc := newConversion(&mockTranscriber{}, &mockOCR{}, &mockTranscripts{})

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "article", Type: entity.ContentTypeLink, Text: "https://example.com/post"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(out, "[Link: https://example.com/post]") {
		t.Fatalf("missing link marker in %q", out)
	}
}

func TestConvertToText_AudioTranscription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.m4a")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr := &mockTranscriber{text: "spoken words"}
	uc := newConversion(tr, &mockOCR{}, &mockTranscripts{})

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "lecture.m4a", Type: entity.ContentTypeAudio, Path: path},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.filename != "lecture.m4a" {
		t.Fatalf("transcriber got filename %q", tr.filename)
	}
	if !strings.Contains(out, "spoken words") {
		t.Fatalf("missing transcription in %q", out)
	}
}

func TestConvertToText_ImageOCR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}
	ocr := &mockOCR{text: "slide text"}
	uc := newConversion(&mockTranscriber{}, ocr, &mockTranscripts{})

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "slide.png", Type: entity.ContentTypeImage, Path: path},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ocr.mimeType != "image/png" {
		t.Fatalf("ocr got mime type %q", ocr.mimeType)
	}
	if !strings.Contains(out, "slide text") {
		t.Fatalf("missing OCR text in %q", out)
	}
}

func TestConvertToText_UnsupportedFileMarker(t *testing.T) {
	uc := newConversion(&mockTranscriber{}, &mockOCR{}, &mockTranscripts{})

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "slides.pdf", Type: entity.ContentTypeFile, Path: "/tmp/slides.pdf"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(out, "[File: slides.pdf - OCR not supported for this file type]") {
		t.Fatalf("missing unsupported-file marker in %q", out)
	}
}

func TestConvertToText_PartialFailureTolerated(t *testing.T) {
	yt := &mockTranscripts{err: errors.New("transcript unavailable")}
	uc := newConversion(&mockTranscriber{}, &mockOCR{}, yt)

	out, err := uc.ConvertToText(context.Background(), []entity.ContentItem{
		{Name: "video", Type: entity.ContentTypeLink, Text: "https://youtu.be/abc123DEF45"},
		{Name: "notes", Type: entity.ContentTypeNotes, Text: "still here"},
	})
	if err != nil {
		t.Fatalf("item failures must not abort the batch: %v", err)
	}
	if !strings.Contains(out, "--- video (conversion failed) ---") {
		t.Fatalf("missing failure marker in %q", out)
	}
	if !strings.Contains(out, "still here") {
		t.Fatalf("surviving item missing from %q", out)
	}
}
