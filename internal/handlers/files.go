package handlers

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
	"github.com/codebuildervaibhav/voxscribe/internal/auth"
	"github.com/codebuildervaibhav/voxscribe/internal/export"
	"github.com/codebuildervaibhav/voxscribe/internal/storage"
	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// RecordStore persists transcript records per user
type RecordStore interface {
	Create(ctx context.Context, rec *types.FileRecord) error
	Get(ctx context.Context, userID, id string) (*types.FileRecord, error)
	List(ctx context.Context, userID string, limit int) ([]*types.FileRecord, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// DriveUploader stores an exported document in cloud storage
type DriveUploader interface {
	Upload(ctx context.Context, name string, body []byte, mimeType string) (string, error)
}

// RecordObserver is told about record churn (metrics)
type RecordObserver interface {
	RecordCreated()
	RecordsRemoved(n int64)
}

// FilesHandler serves the authenticated user's transcript records
type FilesHandler struct {
	store    RecordStore
	exporter Exporter
	drive    DriveUploader
	observer RecordObserver
}

// NewFilesHandler creates a files handler. drive may be nil.
func NewFilesHandler(store RecordStore, exporter Exporter, drive DriveUploader) *FilesHandler {
	return &FilesHandler{
		store:    store,
		exporter: exporter,
		drive:    drive,
	}
}

// WithObserver attaches a record observer
func (h *FilesHandler) WithObserver(o RecordObserver) *FilesHandler {
	h.observer = o
	return h
}

type createFileRequest struct {
	Name       string  `json:"name"`
	Size       int64   `json:"size"`
	Duration   float64 `json:"duration"`
	Language   string  `json:"language"`
	Transcript string  `json:"transcript"`
	Status     string  `json:"status"`
}

// Create saves a transcript record
func (h *FilesHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createFileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondStatus(c, fiber.StatusBadRequest, "Invalid request body", "ERR_INVALID_BODY")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return respondStatus(c, fiber.StatusBadRequest, "File name is required", "ERR_MISSING_NAME")
	}

	status := req.Status
	switch status {
	case "":
		status = types.StatusCompleted
	case types.StatusProcessing, types.StatusCompleted:
	default:
		return respondStatus(c, fiber.StatusBadRequest, "Invalid status", "ERR_INVALID_STATUS")
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = types.DefaultLanguage
	}

	rec := &types.FileRecord{
		UserID:     userID,
		Name:       name,
		Size:       req.Size,
		Duration:   req.Duration,
		Language:   language,
		Status:     status,
		Transcript: req.Transcript,
	}
	if err := h.store.Create(c.UserContext(), rec); err != nil {
		return respondError(c, err, "Failed to save file")
	}
	if h.observer != nil {
		h.observer.RecordCreated()
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// List returns the user's records, newest first
func (h *FilesHandler) List(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := h.store.List(c.UserContext(), userID, limit)
	if err != nil {
		return respondError(c, err, "Failed to list files")
	}
	return c.JSON(records)
}

// Get returns one record including its transcript
func (h *FilesHandler) Get(c *fiber.Ctx) error {
	rec, err := h.lookup(c)
	if err != nil || rec == nil {
		return err
	}
	return c.JSON(rec)
}

// Export downloads a record's transcript as PDF or text
func (h *FilesHandler) Export(c *fiber.Ctx) error {
	rec, err := h.lookup(c)
	if err != nil || rec == nil {
		return err
	}

	doc, err := h.exporter.Export(c.UserContext(), exportRequest(rec))
	if err != nil {
		return respondError(c, err, "Failed to generate PDF")
	}
	return sendDocument(c, doc)
}

// Delete removes one record
func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	err = h.store.Delete(c.UserContext(), userID, c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return respondStatus(c, fiber.StatusNotFound, "File not found", "ERR_NOT_FOUND")
	}
	if err != nil {
		return respondError(c, err, "Failed to delete file")
	}
	if h.observer != nil {
		h.observer.RecordsRemoved(1)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll clears the user's history
func (h *FilesHandler) DeleteAll(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.store.DeleteAll(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Failed to delete files")
	}
	if h.observer != nil {
		h.observer.RecordsRemoved(n)
	}
	log.Printf("Cleared %d records for user %s", n, userID)
	return c.JSON(fiber.Map{"deleted": n})
}

// Drive uploads a record's export to Google Drive
func (h *FilesHandler) Drive(c *fiber.Ctx) error {
	if h.drive == nil {
		return respondStatus(c, fiber.StatusServiceUnavailable, "Google Drive is not configured", "ERR_DRIVE_DISABLED")
	}

	rec, err := h.lookup(c)
	if err != nil || rec == nil {
		return err
	}

	doc, err := h.exporter.Export(c.UserContext(), exportRequest(rec))
	if err != nil {
		return respondError(c, err, "Failed to generate PDF")
	}

	url, err := h.drive.Upload(c.UserContext(), doc.Filename(), doc.Body, doc.ContentType)
	if err != nil {
		return respondError(c, apperr.Internal("Failed to upload to Google Drive", err), "Failed to upload to Google Drive")
	}

	log.Printf("Uploaded %s to Google Drive: %s", doc.Filename(), url)
	return c.JSON(fiber.Map{
		"url":      url,
		"filename": doc.Filename(),
		"format":   doc.Format,
	})
}

// lookup loads the :id record for the current user. A nil record with a nil
// error means the response has already been written.
func (h *FilesHandler) lookup(c *fiber.Ctx) (*types.FileRecord, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	rec, err := h.store.Get(c.UserContext(), userID, c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, respondStatus(c, fiber.StatusNotFound, "File not found", "ERR_NOT_FOUND")
	}
	if err != nil {
		return nil, respondError(c, err, "Failed to load file")
	}
	return rec, nil
}

// exportRequest names the export after the audio file without its extension
func exportRequest(rec *types.FileRecord) export.Request {
	return export.Request{
		Text:     rec.Transcript,
		Filename: strings.TrimSuffix(rec.Name, filepath.Ext(rec.Name)),
	}
}

func currentUser(c *fiber.Ctx) (string, error) {
	id, ok := auth.FromContext(c)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id.UserID, nil
}
