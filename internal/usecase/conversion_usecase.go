package usecase

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/pkg/youtube"
)

// ConversionUsecase turns heterogeneous content items into one text blob
// ready for concept extraction. Item failures are tolerated: a failed item
// contributes a marker section instead of aborting the batch.
type ConversionUsecase interface {
	ConvertToText(ctx context.Context, items []entity.ContentItem) (string, error)
}

type conversionUsecase struct {
	transcriber Transcriber
	ocr         ImageTextExtractor
	transcripts TranscriptFetcher
	log         *logrus.Logger
}

func NewConversionUsecase(transcriber Transcriber, ocr ImageTextExtractor, transcripts TranscriptFetcher, log *logrus.Logger) ConversionUsecase {
	return &conversionUsecase{
		transcriber: transcriber,
		ocr:         ocr,
		transcripts: transcripts,
		log:         log,
	}
}

func (u *conversionUsecase) ConvertToText(ctx context.Context, items []entity.ContentItem) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		text, err := u.convertItem(ctx, item)
		if err != nil {
			u.log.WithError(err).WithField("item", item.Name).Warn("content item conversion failed")
			parts = append(parts, fmt.Sprintf("--- %s (conversion failed) ---\n", item.Name))
			continue
		}
		if text != "" {
			parts = append(parts, fmt.Sprintf("--- %s ---\n%s", item.Name, text))
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func (u *conversionUsecase) convertItem(ctx context.Context, item entity.ContentItem) (string, error) {
	switch item.Type {
	case entity.ContentTypeNotes:
		return item.Text, nil

	case entity.ContentTypeLink:
		url := item.Text
		if url == "" {
			url = item.Path
		}
		if id := youtube.ExtractVideoID(url); id != "" {
			return u.transcripts.Fetch(ctx, id)
		}
		return fmt.Sprintf("[Link: %s]", url), nil

	case entity.ContentTypeAudio:
		f, err := os.Open(item.Path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return u.transcriber.Transcribe(ctx, filepath.Base(item.Path), f)

	case entity.ContentTypeImage:
		return u.extractImageText(ctx, item.Path)

	case entity.ContentTypeFile:
		if item.IsImageFile() {
			return u.extractImageText(ctx, item.Path)
		}
		return fmt.Sprintf("[File: %s - OCR not supported for this file type]", item.Name), nil

	default:
		return "", nil
	}
}

func (u *conversionUsecase) extractImageText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/png"
	}
	return u.ocr.ExtractTextFromImage(ctx, mimeType, data)
}
