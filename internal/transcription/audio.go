package transcription

import (
	"path/filepath"
	"strings"
)

var supportedFormats = map[string]string{
	".mp3":  "audio/mp3",
	".wav":  "audio/wav",
	".m4a":  "audio/m4a",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
	".aac":  "audio/aac",
	".wma":  "audio/x-ms-wma",
	".mp4":  "video/mp4",
	".mov":  "video/mov",
}

// ValidateAudioFormat checks if the file format is supported
func ValidateAudioFormat(filename string) bool {
	_, ok := supportedFormats[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// DetectMIMEType prefers the type declared by the uploader and falls back to
// the file extension
func DetectMIMEType(filename, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if mime, ok := supportedFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return mime
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}
