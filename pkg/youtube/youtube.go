// Package youtube recognizes YouTube video URLs.
package youtube

import "regexp"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([^&]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([^?]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([^?]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/v/([^?]+)`),
}

// IsVideoURL reports whether the URL points at a YouTube video.
func IsVideoURL(raw string) bool {
	return ExtractVideoID(raw) != ""
}

// ExtractVideoID pulls the video id out of any supported YouTube URL form,
// or returns "".
func ExtractVideoID(raw string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(raw); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}
