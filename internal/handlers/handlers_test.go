package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
	"github.com/codebuildervaibhav/voxscribe/internal/export"
	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

type fakeTranscriber struct {
	got    types.TranscriptionRequest
	result *types.TranscriptionResult
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, req types.TranscriptionRequest) (*types.TranscriptionResult, error) {
	f.got = req
	return f.result, f.err
}

type stubRenderer struct {
	body []byte
	err  error
}

func (r stubRenderer) Render(context.Context, export.Content) ([]byte, error) {
	return r.body, r.err
}

func pdfExporter() *export.Exporter {
	return export.NewExporter(stubRenderer{body: []byte("%PDF-1.4 stub")})
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return m
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func multipartUpload(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(data)
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestTranscribeHandler(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		data       []byte
		maxSizeMB  int
		fake       *fakeTranscriber
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no file",
			maxSizeMB:  20,
			fake:       &fakeTranscriber{},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "ERR_NO_FILE",
		},
		{
			name:       "too large",
			filename:   "meeting.mp3",
			data:       bytes.Repeat([]byte{1}, 1024*1024+1),
			maxSizeMB:  1,
			fake:       &fakeTranscriber{},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "ERR_FILE_TOO_LARGE",
		},
		{
			name:      "rate limited",
			filename:  "meeting.mp3",
			data:      []byte("ID3"),
			maxSizeMB: 20,
			fake: &fakeTranscriber{err: apperr.RateLimited(
				"Rate limit exceeded. Please wait 13 seconds and try again.", 13*time.Second)},
			wantStatus: fiber.StatusTooManyRequests,
			wantCode:   "ERR_RATE_LIMITED",
		},
		{
			name:       "empty result",
			filename:   "meeting.mp3",
			data:       []byte("ID3"),
			maxSizeMB:  20,
			fake:       &fakeTranscriber{err: apperr.EmptyResult("Transcription returned empty result.")},
			wantStatus: fiber.StatusInternalServerError,
			wantCode:   "ERR_EMPTY_RESULT",
		},
		{
			name:       "unclassified failure",
			filename:   "meeting.mp3",
			data:       []byte("ID3"),
			maxSizeMB:  20,
			fake:       &fakeTranscriber{err: errors.New("boom")},
			wantStatus: fiber.StatusInternalServerError,
			wantCode:   "ERR_INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/api/transcribe", NewTranscribeHandler(tt.fake, tt.maxSizeMB).Handle)

			resp, err := app.Test(multipartUpload(t, tt.filename, tt.data, nil), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decodeBody(t, resp)
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
			if body["error"] == "" {
				t.Error("missing error message")
			}
			if tt.wantStatus == fiber.StatusTooManyRequests && resp.Header.Get("Retry-After") != "13" {
				t.Errorf("Retry-After = %q", resp.Header.Get("Retry-After"))
			}
		})
	}
}

func TestTranscribeHandlerSuccess(t *testing.T) {
	fake := &fakeTranscriber{result: &types.TranscriptionResult{Text: "Speaker 1: Hi", Duration: 120}}
	app := fiber.New()
	app.Post("/api/transcribe", NewTranscribeHandler(fake, 20).Handle)

	req := multipartUpload(t, "meeting.mp3", []byte("ID3 audio"), map[string]string{"language": "Hindi"})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["transcript"] != "Speaker 1: Hi" || body["duration"] != float64(120) {
		t.Errorf("body = %v", body)
	}
	if fake.got.Language != "Hindi" || fake.got.MIMEType != "audio/mp3" || string(fake.got.Audio) != "ID3 audio" {
		t.Errorf("transcriber got %+v", fake.got)
	}
}

func TestTranscribeHandlerForwardsUnknownFormat(t *testing.T) {
	fake := &fakeTranscriber{result: &types.TranscriptionResult{Text: "Speaker 1: Hi", Duration: 5}}
	app := fiber.New()
	app.Post("/api/transcribe", NewTranscribeHandler(fake, 20).Handle)

	// CreateFormFile declares application/octet-stream
	resp, err := app.Test(multipartUpload(t, "recording", []byte("OggS"), nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if fake.got.MIMEType != "application/octet-stream" || string(fake.got.Audio) != "OggS" {
		t.Errorf("transcriber got %+v", fake.got)
	}
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestExportHandler(t *testing.T) {
	tests := []struct {
		name            string
		renderer        export.Renderer
		body            string
		wantStatus      int
		wantType        string
		wantDisposition string
		wantCode        string
	}{
		{
			name:            "pdf",
			renderer:        stubRenderer{body: []byte("%PDF-1.4 stub")},
			body:            `{"text":"Speaker 1: Hello","filename":"Weekly Sync?"}`,
			wantStatus:      fiber.StatusOK,
			wantType:        "application/pdf",
			wantDisposition: `attachment; filename="Weekly%20Sync.pdf"`,
		},
		{
			name:            "fallback to text",
			renderer:        stubRenderer{err: errors.New("font missing")},
			body:            `{"text":"Speaker 1: Hello"}`,
			wantStatus:      fiber.StatusOK,
			wantType:        "text/plain; charset=utf-8",
			wantDisposition: `attachment; filename="transcript.txt"`,
		},
		{
			name:       "blank text",
			renderer:   stubRenderer{body: []byte("%PDF")},
			body:       `{"text":"   \n"}`,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "ERR_EMPTY_TEXT",
		},
		{
			name:       "malformed json",
			renderer:   stubRenderer{body: []byte("%PDF")},
			body:       `{"text":`,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "ERR_INVALID_BODY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/api/export/pdf", NewExportHandler(export.NewExporter(tt.renderer)).Handle)

			resp, err := app.Test(postJSON("/api/export/pdf", tt.body))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if body := decodeBody(t, resp); body["code"] != tt.wantCode {
					t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
				}
				return
			}

			if got := resp.Header.Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q", got)
			}
			if got := resp.Header.Get("Content-Disposition"); got != tt.wantDisposition {
				t.Errorf("Content-Disposition = %q", got)
			}
			data, _ := io.ReadAll(resp.Body)
			if resp.ContentLength != int64(len(data)) || len(data) == 0 {
				t.Errorf("Content-Length = %d, body = %d bytes", resp.ContentLength, len(data))
			}
		})
	}
}
