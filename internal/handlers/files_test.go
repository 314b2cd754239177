package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"

	"github.com/codebuildervaibhav/voxscribe/internal/auth"
	"github.com/codebuildervaibhav/voxscribe/internal/storage"
)

const testSecret = "handlers-test-secret"

type fakeDrive struct {
	name     string
	mimeType string
	size     int
	err      error
}

func (d *fakeDrive) Upload(_ context.Context, name string, body []byte, mimeType string) (string, error) {
	d.name, d.mimeType, d.size = name, mimeType, len(body)
	if d.err != nil {
		return "", d.err
	}
	return "https://drive.google.com/file/d/abc/view", nil
}

type countingRecords struct {
	created int
	removed int64
}

func (c *countingRecords) RecordCreated()         { c.created++ }
func (c *countingRecords) RecordsRemoved(n int64) { c.removed += n }

type filesFixture struct {
	app      *fiber.App
	observer *countingRecords
}

func newFilesFixture(t *testing.T, drive DriveUploader) *filesFixture {
	t.Helper()
	store, err := storage.NewRecordStore(filepath.Join(t.TempDir(), "files.db"))
	if err != nil {
		t.Fatalf("NewRecordStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	verifier, err := auth.NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	obs := &countingRecords{}
	h := NewFilesHandler(store, pdfExporter(), drive).WithObserver(obs)

	app := fiber.New()
	files := app.Group("/api/files", verifier.Middleware())
	files.Post("/", h.Create)
	files.Get("/", h.List)
	files.Delete("/", h.DeleteAll)
	files.Get("/:id", h.Get)
	files.Delete("/:id", h.Delete)
	files.Get("/:id/export", h.Export)
	files.Post("/:id/drive", h.Drive)

	return &filesFixture{app: app, observer: obs}
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func (f *filesFixture) do(t *testing.T, method, path, user, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("Authorization", bearer(t, user))
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func (f *filesFixture) create(t *testing.T, user, body string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/files", user, body)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	rec := decodeBody(t, resp)
	id, _ := rec["id"].(string)
	if id == "" {
		t.Fatalf("created record has no id: %v", rec)
	}
	return id
}

func TestFilesRequireToken(t *testing.T) {
	f := newFilesFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/api/files", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["code"] != "ERR_UNAUTHORIZED" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestFilesCreateValidation(t *testing.T) {
	f := newFilesFixture(t, nil)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing name", `{"transcript":"x"}`, "ERR_MISSING_NAME"},
		{"bad status", `{"name":"a.mp3","status":"failed"}`, "ERR_INVALID_STATUS"},
		{"malformed", `{"name":`, "ERR_INVALID_BODY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/api/files", "alice", tt.body)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if body := decodeBody(t, resp); body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
		})
	}
}

func TestFilesLifecycle(t *testing.T) {
	f := newFilesFixture(t, nil)

	id := f.create(t, "alice", `{"name":"standup.webm","size":1024,"duration":120,"transcript":"Speaker 1: Hello"}`)
	f.create(t, "alice", `{"name":"retro.mp3","language":"Hindi","transcript":"Speaker 1: नमस्ते"}`)
	f.create(t, "bob", `{"name":"bob.mp3","transcript":"Speaker 1: Bob"}`)

	resp := f.do(t, http.MethodGet, "/api/files/"+id, "alice", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	rec := decodeBody(t, resp)
	if rec["language"] != "English" || rec["status"] != "completed" || rec["transcript"] != "Speaker 1: Hello" {
		t.Errorf("record defaults = %v", rec)
	}

	if resp := f.do(t, http.MethodGet, "/api/files/"+id, "bob", ""); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("cross-user get status = %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodGet, "/api/files?limit=1", "alice", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []map[string]any
	decodeInto(t, resp, &list)
	if len(list) != 1 {
		t.Errorf("limit=1 returned %d records", len(list))
	}

	resp = f.do(t, http.MethodGet, "/api/files/"+id+"/export", "alice", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="standup.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}

	if resp := f.do(t, http.MethodDelete, "/api/files/"+id, "alice", ""); resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if resp := f.do(t, http.MethodDelete, "/api/files/"+id, "alice", ""); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("second delete status = %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodDelete, "/api/files", "alice", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete all status = %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["deleted"] != float64(1) {
		t.Errorf("deleted = %v", body["deleted"])
	}

	if f.observer.created != 3 || f.observer.removed != 2 {
		t.Errorf("observer = %+v", f.observer)
	}
}

func TestFilesExportEmptyTranscript(t *testing.T) {
	f := newFilesFixture(t, nil)
	id := f.create(t, "alice", `{"name":"pending.mp3","status":"processing"}`)

	resp := f.do(t, http.MethodGet, "/api/files/"+id+"/export", "alice", "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestFilesDrive(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFilesFixture(t, nil)
		id := f.create(t, "alice", `{"name":"a.mp3","transcript":"Speaker 1: Hi"}`)
		resp := f.do(t, http.MethodPost, "/api/files/"+id+"/drive", "alice", "")
		if resp.StatusCode != fiber.StatusServiceUnavailable {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("uploads export", func(t *testing.T) {
		drive := &fakeDrive{}
		f := newFilesFixture(t, drive)
		id := f.create(t, "alice", `{"name":"a.mp3","transcript":"Speaker 1: Hi"}`)

		resp := f.do(t, http.MethodPost, "/api/files/"+id+"/drive", "alice", "")
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		if body["url"] != "https://drive.google.com/file/d/abc/view" || body["format"] != "pdf" {
			t.Errorf("body = %v", body)
		}
		if drive.name != "a.pdf" || drive.mimeType != "application/pdf" || drive.size == 0 {
			t.Errorf("drive got %+v", drive)
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFilesFixture(t, &fakeDrive{err: errors.New("quota")})
		id := f.create(t, "alice", `{"name":"a.mp3","transcript":"Speaker 1: Hi"}`)
		resp := f.do(t, http.MethodPost, "/api/files/"+id+"/drive", "alice", "")
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}
