package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/voxscribe/internal/export"
)

// Exporter builds downloadable transcript documents
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Document, error)
}

// ExportHandler handles ad-hoc transcript exports
type ExportHandler struct {
	exporter Exporter
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Handle exports posted transcript text as PDF, or text when PDF fails
func (h *ExportHandler) Handle(c *fiber.Ctx) error {
	var req export.Request
	if err := c.BodyParser(&req); err != nil {
		return respondStatus(c, fiber.StatusBadRequest, "Invalid request body", "ERR_INVALID_BODY")
	}

	doc, err := h.exporter.Export(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "Failed to generate PDF")
	}

	return sendDocument(c, doc)
}
