package export

import (
	"fmt"
	"strings"
	"time"
)

// PlainText renders the fallback document. It uses the raw title and text
// since any failure in the PDF path must still produce a download.
func PlainText(title string, generated time.Time, text string) []byte {
	return []byte(fmt.Sprintf("%s\n\nGenerated on %s\n\n%s\n\n%s",
		title,
		generated.Format("1/2/2006, 3:04:05 PM"),
		strings.Repeat("=", 50),
		text,
	))
}

// GeneratedLine is the timestamp printed under the PDF title
func GeneratedLine(generated time.Time) string {
	return fmt.Sprintf("Generated on %s at %s", generated.Format("1/2/2006"), generated.Format("03:04 PM"))
}
