package transcription

import (
	"regexp"
	"strings"
)

var (
	// [0m5s100ms-0m10s200ms]
	durationRangeMarker = regexp.MustCompile(`\[\d+m\d+s\d+ms-\d+m\d+s\d+ms\]`)
	// 0:06 or 00:06 at the very start
	leadingClock = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	// ?00:06  .00:15  )01:05
	clockAfterSentence = regexp.MustCompile(`([.?!)])\s*\d{1,2}:\d{2}`)
)

// CleanTranscript strips timestamp markers the model sometimes emits despite
// being told not to, then collapses whitespace.
func CleanTranscript(text string) string {
	text = durationRangeMarker.ReplaceAllString(text, "")
	text = leadingClock.ReplaceAllString(text, "")
	text = clockAfterSentence.ReplaceAllString(text, "$1 ")
	return strings.Join(strings.Fields(text), " ")
}
