package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer lays transcripts out with fpdf using a single embedded font
type PDFRenderer struct {
	font     Font
	compress bool
}

// NewPDFRenderer creates a renderer that embeds font as the only family
func NewPDFRenderer(font Font) *PDFRenderer {
	return &PDFRenderer{font: font, compress: true}
}

// Render builds the PDF in memory
func (r *PDFRenderer) Render(_ context.Context, content Content) ([]byte, error) {
	if len(r.font.Data) == 0 {
		return nil, fmt.Errorf("no font data for %q", r.font.Family)
	}

	// fpdf draws missing glyphs as blanks without reporting an error
	missing, ok, err := r.font.MissingRune(content.Title, content.Stamp, content.Body)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("font %s has no glyph for %q (U+%04X)", r.font.Family, missing, missing)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("VoxScribe", true)
	pdf.SetTitle(content.Title, true)

	pdf.AddUTF8FontFromBytes(r.font.Family, "", r.font.Data)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register font %s: %w", r.font.Family, err)
	}

	layoutDocument(&fpdfCanvas{pdf: pdf, family: r.font.Family}, content)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type fpdfCanvas struct {
	pdf    *fpdf.Fpdf
	family string
}

func (c *fpdfCanvas) AddPage()       { c.pdf.AddPage() }
func (c *fpdfCanvas) SetPage(n int)  { c.pdf.SetPage(n) }
func (c *fpdfCanvas) PageCount() int { return c.pdf.PageCount() }

// UseFont selects the embedded family. fpdf skips SetFont when family, style
// and size are unchanged, which leaves a revisited page without a font
// selector; SetFontSize always writes one into the current page.
func (c *fpdfCanvas) UseFont(size float64) {
	c.pdf.SetFont(c.family, "", size)
	c.pdf.SetFontSize(size)
}

func (c *fpdfCanvas) TextWidth(s string) float64 { return c.pdf.GetStringWidth(s) }

func (c *fpdfCanvas) Text(x, y float64, s string) { c.pdf.Text(x, y, s) }
