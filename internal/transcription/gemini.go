package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

// PlaceholderDuration is reported for every transcript. The upstream response
// carries no audio length and nothing here decodes the audio.
const PlaceholderDuration = 120

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com"
	defaultAPIVersion = "v1"
	defaultModel      = "gemini-2.5-flash"
)

// Config holds the upstream connection settings
type Config struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	// Timeout bounds the whole upstream call. Zero means no limit.
	Timeout time.Duration
}

// Observer receives the outcome of each upstream call
type Observer interface {
	ObserveTranscription(outcome string, elapsed time.Duration)
}

// GeminiTranscriber sends audio to the Gemini generateContent endpoint
type GeminiTranscriber struct {
	config     Config
	httpClient *http.Client
	extractors []extractor
	observer   Observer
}

// NewGeminiTranscriber creates a transcriber for the given upstream config
func NewGeminiTranscriber(config Config) (*GeminiTranscriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = defaultAPIVersion
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &GeminiTranscriber{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		extractors: defaultExtractors,
	}, nil
}

// WithObserver attaches an outcome observer (metrics)
func (g *GeminiTranscriber) WithObserver(o Observer) *GeminiTranscriber {
	g.observer = o
	return g
}

type generateRequest struct {
	Contents []*genai.Content `json:"contents"`
}

// generateResponse covers every shape the upstream has been seen to return:
// regular candidates, a flat text field, and an error object (sometimes with 200).
type generateResponse struct {
	Candidates []*genai.Candidate `json:"candidates,omitempty"`
	Text       string             `json:"text,omitempty"`
	Error      *providerError     `json:"error,omitempty"`
}

type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Transcribe produces a cleaned speaker-labeled transcript for one audio payload
func (g *GeminiTranscriber) Transcribe(ctx context.Context, req types.TranscriptionRequest) (*types.TranscriptionResult, error) {
	if len(req.Audio) == 0 {
		return nil, apperr.BadRequest("ERR_NO_FILE", "No file uploaded")
	}

	start := time.Now()
	result, err := g.transcribe(ctx, req)
	g.observe(result, err, time.Since(start))
	return result, err
}

func (g *GeminiTranscriber) transcribe(ctx context.Context, req types.TranscriptionRequest) (*types.TranscriptionResult, error) {
	language := NormalizeLanguage(req.Language)

	body, err := json.Marshal(generateRequest{
		Contents: []*genai.Content{{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Audio}},
				{Text: BuildPrompt(language)},
			},
		}},
	})
	if err != nil {
		return nil, apperr.Internal("Transcription failed", fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Internal("Transcription failed", fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Printf("Sending %d bytes of %s audio to %s (language: %s)", len(req.Audio), req.MIMEType, g.config.Model, language)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Internal("Transcription failed", fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Internal("Transcription failed", fmt.Errorf("read response body: %w", err))
	}

	var data generateResponse
	decodeErr := json.Unmarshal(raw, &data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Gemini API error (status %d): %s", resp.StatusCode, truncateMessage(string(raw), 500))
		return nil, classifyFailure(resp.StatusCode, data.Error)
	}
	if decodeErr != nil {
		return nil, apperr.Internal("Transcription failed", fmt.Errorf("decode response: %w", decodeErr))
	}
	if data.Error != nil {
		log.Printf("Gemini API error in response body: code=%d status=%s", data.Error.Code, data.Error.Status)
		return nil, classifyFailure(resp.StatusCode, data.Error)
	}

	transcript := g.extract(&data)
	if strings.TrimSpace(transcript) == "" {
		log.Printf("Empty transcript from API: %s", truncateMessage(string(raw), 500))
		return nil, apperr.EmptyResult("Transcription returned empty result. Please check your audio file and try again.")
	}

	return &types.TranscriptionResult{
		Text:     CleanTranscript(transcript),
		Duration: PlaceholderDuration,
	}, nil
}

func (g *GeminiTranscriber) endpoint() string {
	q := url.Values{}
	q.Set("key", g.config.APIKey)
	return fmt.Sprintf("%s/%s/models/%s:generateContent?%s",
		g.config.BaseURL, g.config.APIVersion, url.PathEscape(g.config.Model), q.Encode())
}

func (g *GeminiTranscriber) extract(data *generateResponse) string {
	for _, ex := range g.extractors {
		if text := ex(data); text != "" {
			return text
		}
	}
	return ""
}

func (g *GeminiTranscriber) observe(result *types.TranscriptionResult, err error, elapsed time.Duration) {
	if g.observer == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = apperr.As(err, "").Kind.String()
	}
	g.observer.ObserveTranscription(outcome, elapsed)
}

// NormalizeLanguage trims the requested language and applies the default
func NormalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return types.DefaultLanguage
	}
	return language
}
