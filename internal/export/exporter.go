package export

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
)

// Document formats
const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// Renderer turns laid-out content into a binary document
type Renderer interface {
	Render(ctx context.Context, content Content) ([]byte, error)
}

// Observer is told which format every export ended up in
type Observer interface {
	ObserveExport(format string)
}

// Request is one export of transcript text
type Request struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// Document is a ready-to-download export
type Document struct {
	Body        []byte
	Name        string
	Extension   string
	ContentType string
	Format      string
}

// Filename returns the sanitized name with extension
func (d *Document) Filename() string {
	return d.Name + d.Extension
}

// Disposition returns the attachment Content-Disposition header value
func (d *Document) Disposition() string {
	return ContentDisposition(d.Name, d.Extension)
}

// Exporter builds PDF exports and falls back to plain text on any failure
type Exporter struct {
	renderer Renderer
	now      func() time.Time
	observer Observer
}

// NewExporter creates an exporter around a PDF renderer
func NewExporter(renderer Renderer) *Exporter {
	return &Exporter{
		renderer: renderer,
		now:      time.Now,
	}
}

// WithObserver attaches an export observer (metrics)
func (e *Exporter) WithObserver(o Observer) *Exporter {
	e.observer = o
	return e
}

// Export validates the request and produces a PDF, or the plain-text
// fallback if anything in the PDF path fails. Only blank text is an error.
func (e *Exporter) Export(ctx context.Context, req Request) (*Document, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.BadRequest("ERR_EMPTY_TEXT", "Empty transcript")
	}

	title := req.Filename
	if strings.TrimSpace(title) == "" {
		title = DefaultFilename
	}
	name := SanitizeFilename(req.Filename)
	generated := e.now()

	body, err := e.render(ctx, Content{
		Title: title,
		Stamp: GeneratedLine(generated),
		Body:  req.Text,
	})
	if err == nil {
		e.observe(FormatPDF)
		return &Document{
			Body:        body,
			Name:        name,
			Extension:   ".pdf",
			ContentType: "application/pdf",
			Format:      FormatPDF,
		}, nil
	}

	log.Printf("PDF export failed for %q, falling back to plain text: %v", name, err)
	e.observe(FormatText)
	return &Document{
		Body:        PlainText(title, generated, req.Text),
		Name:        name,
		Extension:   ".txt",
		ContentType: "text/plain; charset=utf-8",
		Format:      FormatText,
	}, nil
}

// render is the single catch-all boundary around the PDF engine
func (e *Exporter) render(ctx context.Context, content Content) (body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PDF renderer panic: %v\n%s", r, string(debug.Stack()))
			body, err = nil, fmt.Errorf("renderer panic: %v", r)
		}
	}()

	if e.renderer == nil {
		return nil, fmt.Errorf("no PDF renderer configured")
	}
	body, err = e.renderer.Render(ctx, content)
	if err == nil && len(body) == 0 {
		err = fmt.Errorf("renderer produced an empty document")
	}
	return body, err
}

func (e *Exporter) observe(format string) {
	if e.observer != nil {
		e.observer.ObserveExport(format)
	}
}
