// Package openai talks to an OpenAI-compatible API for concept extraction,
// material generation, image OCR and audio transcription.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studypup/studypup/internal/entity"
)

// Config selects the API endpoint and models. An empty APIKey means AI is
// not configured; callers get entity.ErrAINotConfigured instead of requests
// going out unauthenticated.
type Config struct {
	APIKey             string
	BaseURL            string
	Model              string
	TranscriptionModel string
	Timeout            time.Duration
	MaxRetries         int
}

const (
	defaultBaseURL            = "https://api.openai.com"
	defaultModel              = "gpt-4o-mini"
	defaultTranscriptionModel = "whisper-1"
	defaultTimeout            = 120 * time.Second
)

// Client is a thin chat-completions client shared by the extraction,
// generation and conversion adapters.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = defaultTranscriptionModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

// Model returns the chat model requests are sent with.
func (c *Client) Model() string { return c.cfg.Model }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type chatOptions struct {
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// chat performs one chat-completions round trip and returns the first
// choice's content.
func (c *Client) chat(ctx context.Context, messages []chatMessage, opts chatOptions) (string, error) {
	if !c.Configured() {
		return "", entity.ErrAINotConfigured
	}

	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		req.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		content, retryable, err := c.chatOnce(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.WithError(err).WithField("attempt", attempt+1).Warn("chat completion retrying")
	}
	return "", lastErr
}

func (c *Client) chatOnce(ctx context.Context, body []byte) (content string, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", true, err
	}
	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", transient, fmt.Errorf("chat completion: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("chat completion: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("chat completion: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", false, fmt.Errorf("chat completion: empty response")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

// generateJSON sends a system+user prompt pair in JSON mode and decodes the
// reply into out.
func (c *Client) generateJSON(ctx context.Context, system, user string, opts chatOptions, out any) error {
	opts.JSONMode = true
	content, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

// ExtractTextFromImage runs OCR over image bytes via the vision endpoint.
// Returns the raw text with surrounding whitespace trimmed.
func (c *Client) ExtractTextFromImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	content, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: "Extract all text from this image. Return only the raw text, no markdown or explanation."},
		{Role: "user", Content: []map[string]any{
			{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
		}},
	}, chatOptions{MaxTokens: 1024})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Transcribe sends audio bytes to the transcription endpoint and returns
// the recognized text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if !c.Configured() {
		return "", entity.ErrAINotConfigured
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", c.cfg.TranscriptionModel); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("transcription: decode response: %w", err)
	}
	return strings.TrimSpace(parsed.Text), nil
}
