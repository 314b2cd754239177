package handlers

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voxscribe/internal/transcription"
	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

// Transcriber turns audio into a transcript
type Transcriber interface {
	Transcribe(ctx context.Context, req types.TranscriptionRequest) (*types.TranscriptionResult, error)
}

// TranscribeHandler handles direct audio uploads
type TranscribeHandler struct {
	transcriber Transcriber
	maxSizeMB   int
}

// NewTranscribeHandler creates a new transcribe handler
func NewTranscribeHandler(transcriber Transcriber, maxSizeMB int) *TranscribeHandler {
	return &TranscribeHandler{
		transcriber: transcriber,
		maxSizeMB:   maxSizeMB,
	}
}

// Handle transcribes the uploaded file synchronously
func (h *TranscribeHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondStatus(c, fiber.StatusBadRequest, "No file uploaded", "ERR_NO_FILE")
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return respondStatus(c, fiber.StatusBadRequest,
			fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB), "ERR_FILE_TOO_LARGE")
	}

	// Any declared type is forwarded; the provider rejects what it cannot decode
	mimeType := transcription.DetectMIMEType(file.Filename, file.Header.Get(fiber.HeaderContentType))

	f, err := file.Open()
	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		return respondStatus(c, fiber.StatusInternalServerError, "Failed to read file", "ERR_READ_FAILED")
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		log.Printf("Failed to read uploaded file: %v", err)
		return respondStatus(c, fiber.StatusInternalServerError, "Failed to read file", "ERR_READ_FAILED")
	}

	log.Printf("Transcribing %s (%d bytes, %s)", file.Filename, len(audio), mimeType)

	result, err := h.transcriber.Transcribe(c.UserContext(), types.TranscriptionRequest{
		Audio:    audio,
		MIMEType: mimeType,
		Language: c.FormValue("language"),
	})
	if err != nil {
		return respondError(c, err, "Transcription failed")
	}

	return c.JSON(result)
}
