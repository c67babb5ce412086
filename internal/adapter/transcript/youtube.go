// Package transcript fetches YouTube transcripts through the RapidAPI
// youtube-transcript3 service.
package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studypup/studypup/internal/entity"
)

const transcriptHost = "youtube-transcript3.p.rapidapi.com"

// Config carries the RapidAPI credentials. An empty APIKey disables the
// fetcher.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Fetcher retrieves flat-text English transcripts for YouTube videos.
type Fetcher struct {
	cfg        Config
	httpClient *http.Client
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + transcriptHost
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Fetcher{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

// Configured reports whether an API key is present.
func (f *Fetcher) Configured() bool { return f.cfg.APIKey != "" }

// Fetch returns the transcript text for a video id.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	if !f.Configured() {
		return "", entity.ErrTranscriptNotConfigured
	}

	videoURL := "https://www.youtube.com/watch?v=" + videoID
	endpoint := f.cfg.BaseURL + "/api/transcript-with-url?url=" + url.QueryEscape(videoURL) + "&flat_text=true&lang=en"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-rapidapi-key", f.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", transcriptHost)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube transcript: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("youtube transcript: no transcript text returned")
	}
	return text, nil
}
