package usecase

import (
	"context"
	"io"

	"github.com/studypup/studypup/internal/derive"
	"github.com/studypup/studypup/internal/entity"
)

// ConceptExtractor turns raw text into knowledge graph concepts plus a
// display title and emoji for the topic.
type ConceptExtractor interface {
	Extract(ctx context.Context, content string) (concepts []entity.Concept, title, emoji string, err error)
}

// MaterialGenerator produces study materials with an AI model. Generate
// fails as a whole when any requested type fails, so the caller can fall
// back to templates for the full batch.
type MaterialGenerator interface {
	Generate(ctx context.Context, graph *entity.KnowledgeGraph, types []entity.MaterialType) (*derive.Materials, error)
	ReviseNotes(ctx context.Context, notes, instruction string) (string, error)
	Model() string
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// ImageTextExtractor runs OCR over image bytes.
type ImageTextExtractor interface {
	ExtractTextFromImage(ctx context.Context, mimeType string, data []byte) (string, error)
}

// TranscriptFetcher retrieves a video transcript by video id.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}
