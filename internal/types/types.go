package types

import "time"

// File status constants
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// DefaultLanguage is used when a request names no target language
const DefaultLanguage = "English"

// TranscriptionRequest is one uploaded audio payload to transcribe
type TranscriptionRequest struct {
	Audio    []byte
	MIMEType string
	Language string
}

// TranscriptionResult is the cleaned speaker-labeled dialogue
type TranscriptionResult struct {
	Text     string  `json:"transcript"`
	Duration float64 `json:"duration"`
}

// FileRecord is a transcript persisted for one user
type FileRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Duration   float64   `json:"duration"`
	Language   string    `json:"language"`
	Status     string    `json:"status"`
	Transcript string    `json:"transcript,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
