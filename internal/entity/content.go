package entity

import (
	"regexp"
	"strings"
)

// ContentType classifies a raw content item before conversion to text.
type ContentType string

const (
	ContentTypeAudio ContentType = "audio"
	ContentTypeImage ContentType = "image"
	ContentTypeFile  ContentType = "file"
	ContentTypeNotes ContentType = "notes"
	ContentTypeLink  ContentType = "link"
)

// ContentItem is one piece of raw user content awaiting conversion to text.
// Exactly one of Path (local media/file) or Text (pasted notes, link URL)
// carries the payload, depending on Type.
type ContentItem struct {
	Name string      `json:"name"`
	Type ContentType `json:"type"`
	Path string      `json:"path,omitempty"`
	Text string      `json:"text,omitempty"`
	Size int64       `json:"size,omitempty"`
}

var imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|bmp)$`)

// IsImageFile reports whether a generic file item looks like an image by
// extension, in which case it goes through OCR.
func (c ContentItem) IsImageFile() bool {
	return imageExtPattern.MatchString(c.Name)
}

// DetectContentType guesses a content type from a file name.
func DetectContentType(name string) ContentType {
	lower := strings.ToLower(name)
	switch {
	case imageExtPattern.MatchString(lower):
		return ContentTypeImage
	case strings.HasSuffix(lower, ".m4a"), strings.HasSuffix(lower, ".mp3"),
		strings.HasSuffix(lower, ".wav"), strings.HasSuffix(lower, ".ogg"):
		return ContentTypeAudio
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return ContentTypeLink
	default:
		return ContentTypeFile
	}
}
