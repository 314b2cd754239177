package export

import (
	"fmt"
	"strings"
)

// A4 portrait, millimetres
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	contentWidth = 170.0
	leftMargin   = 20.0
	topMargin    = 20.0
	bottomMargin = 25.0
	footerOffset = 10.0

	titleSize  = 18.0
	stampSize  = 10.0
	bodySize   = 11.0
	footerSize = 9.0

	titleLeading = 8.0
	bodyLeading  = 7.0
)

// Canvas is the page surface the layout draws on.
//
// Font state does not persist across page boundaries: after AddPage or
// SetPage, UseFont must be called again before Text.
type Canvas interface {
	AddPage()
	SetPage(n int)
	PageCount() int
	UseFont(size float64)
	TextWidth(s string) float64
	Text(x, y float64, s string)
}

// Content is what gets laid out into a document
type Content struct {
	Title string
	Stamp string
	Body  string
}

// layoutDocument draws the title block, the wrapped body and the page footers
func layoutDocument(c Canvas, content Content) {
	c.AddPage()

	c.UseFont(titleSize)
	y := topMargin
	for _, line := range wrapText(c.TextWidth, content.Title, contentWidth) {
		drawCentered(c, line, y)
		y += titleLeading
	}

	c.UseFont(stampSize)
	drawCentered(c, content.Stamp, y+5)
	y += 15

	c.UseFont(bodySize)
	for _, line := range wrapText(c.TextWidth, content.Body, contentWidth) {
		if y > pageHeight-bottomMargin {
			c.AddPage()
			c.UseFont(bodySize)
			y = topMargin
		}
		if line != "" {
			c.Text(leftMargin, y, line)
		}
		y += bodyLeading
	}

	total := c.PageCount()
	for i := 1; i <= total; i++ {
		c.SetPage(i)
		c.UseFont(footerSize)
		drawCentered(c, fmt.Sprintf("Page %d of %d", i, total), pageHeight-footerOffset)
	}
}

func drawCentered(c Canvas, s string, y float64) {
	if s == "" {
		return
	}
	c.Text((pageWidth-c.TextWidth(s))/2, y, s)
}

// wrapText breaks text into lines no wider than width. Explicit newlines are
// kept; words wider than a full line are split between runes.
func wrapText(measure func(string) float64, text string, width float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			if measure(word) > width {
				pieces := splitWord(measure, word, width)
				lines = append(lines, pieces[:len(pieces)-1]...)
				line = pieces[len(pieces)-1]
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func splitWord(measure func(string) float64, word string, width float64) []string {
	var pieces []string
	var current []rune
	for _, r := range word {
		next := append(current, r)
		if len(current) > 0 && measure(string(next)) > width {
			pieces = append(pieces, string(current))
			current = []rune{r}
			continue
		}
		current = next
	}
	return append(pieces, string(current))
}
