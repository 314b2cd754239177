package transcription

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
)

const maxProviderMessage = 200

var retryHint = regexp.MustCompile(`Please retry in ([\d.]+)s`)

// classifyFailure turns an upstream failure (HTTP status plus optional
// provider error object) into a user-facing error
func classifyFailure(status int, pe *providerError) *apperr.Error {
	var (
		code    int
		message string
	)
	if pe != nil {
		code = pe.Code
		message = pe.Message
	}

	if status == http.StatusTooManyRequests || code == http.StatusTooManyRequests {
		return rateLimitError(message)
	}

	if message == "" {
		message = "Transcription API error"
	}
	return apperr.Provider(truncateMessage(message, maxProviderMessage))
}

func rateLimitError(message string) *apperr.Error {
	if wait := retryAfterSeconds(message); wait > 0 {
		return apperr.RateLimited(
			fmt.Sprintf("Rate limit exceeded. Please wait %d seconds and try again.", wait),
			time.Duration(wait)*time.Second,
		)
	}
	return apperr.RateLimited("Rate limit exceeded. Please wait a moment and try again.", 0)
}

// retryAfterSeconds reads "Please retry in 12.3s" and rounds up; 0 when absent
func retryAfterSeconds(message string) int {
	m := retryHint.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return int(math.Ceil(secs))
}

func truncateMessage(message string, limit int) string {
	if utf8.RuneCountInString(message) <= limit {
		return message
	}
	runes := []rune(message)
	return string(runes[:limit]) + "..."
}
