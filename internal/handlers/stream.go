package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/voxscribe/internal/apperr"
	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

const endOfStream = "END"

// StreamHandler transcribes audio recorded in the browser and streamed over
// a WebSocket
type StreamHandler struct {
	transcriber Transcriber
	spoolDir    string
	maxBytes    int64
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(transcriber Transcriber, spoolDir string, maxSizeMB int) *StreamHandler {
	return &StreamHandler{
		transcriber: transcriber,
		spoolDir:    spoolDir,
		maxBytes:    int64(maxSizeMB) * 1024 * 1024,
	}
}

// Handle processes one recording per connection
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	session, err := newRecordingSession(h.spoolDir)
	if err != nil {
		log.Printf("Failed to create spool file: %v", err)
		writeStreamError(c, apperr.Internal("Failed to start recording", err))
		return
	}
	defer session.discard()

	log.Printf("WebSocket recording started: %s", session.id)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error (%s): %v", session.id, err)
			return
		}

		if messageType == websocket.TextMessage {
			done, err := session.control(message)
			if err != nil {
				writeStreamError(c, err)
				return
			}
			if done {
				log.Printf("Received END signal, transcribing %s (%d bytes)", session.id, session.size)
				break
			}
			continue
		}

		if messageType == websocket.BinaryMessage {
			if session.size+int64(len(message)) > h.maxBytes {
				writeStreamError(c, apperr.BadRequest("ERR_FILE_TOO_LARGE",
					fmt.Sprintf("Recording too large (max %dMB)", h.maxBytes/(1024*1024))))
				return
			}
			if err := session.write(message); err != nil {
				writeStreamError(c, apperr.Internal("Failed to buffer audio", err))
				return
			}
		}
	}

	audio, err := session.finish()
	if err != nil {
		writeStreamError(c, err)
		return
	}

	result, err := h.transcriber.Transcribe(context.Background(), types.TranscriptionRequest{
		Audio:    audio,
		MIMEType: session.mimeType,
		Language: session.language,
	})
	if err != nil {
		writeStreamError(c, err)
		return
	}

	if err := c.WriteJSON(result); err != nil {
		log.Printf("WebSocket write error (%s): %v", session.id, err)
	}
}

func writeStreamError(c *websocket.Conn, err error) {
	ae := apperr.As(err, "Transcription failed")
	if ae.Kind == apperr.KindInternal {
		log.Printf("Recording failed: %v", err)
	}
	frame := map[string]any{
		"error":  ae.Message,
		"code":   ae.Code,
		"status": ae.StatusCode(),
	}
	if err := c.WriteJSON(frame); err != nil {
		log.Printf("WebSocket write error (%s): %v", ae.Code, err)
	}
}

// recordingOptions is the optional JSON control frame
type recordingOptions struct {
	Language string `json:"language"`
	MIMEType string `json:"mime_type"`
}

// recordingSession spools one connection's audio to disk
type recordingSession struct {
	id       string
	path     string
	file     *os.File
	size     int64
	language string
	mimeType string
}

func newRecordingSession(spoolDir string) (*recordingSession, error) {
	id := uuid.New().String()
	path := filepath.Join(spoolDir, id+".webm")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &recordingSession{
		id:       id,
		path:     path,
		file:     f,
		language: types.DefaultLanguage,
		mimeType: "audio/webm",
	}, nil
}

// control applies a text frame and reports whether the recording ended
func (s *recordingSession) control(msg []byte) (bool, error) {
	text := strings.TrimSpace(string(msg))
	if text == endOfStream {
		return true, nil
	}

	if !strings.HasPrefix(text, "{") {
		log.Printf("Ignoring unknown control message on %s: %q", s.id, text)
		return false, nil
	}

	var opts recordingOptions
	if err := json.Unmarshal([]byte(text), &opts); err != nil {
		return false, apperr.BadRequest("ERR_INVALID_BODY", "Invalid control message")
	}
	if v := strings.TrimSpace(opts.Language); v != "" {
		s.language = v
	}
	if v := strings.TrimSpace(opts.MIMEType); v != "" {
		s.mimeType = v
	}
	return false, nil
}

func (s *recordingSession) write(p []byte) error {
	n, err := s.file.Write(p)
	s.size += int64(n)
	return err
}

// finish closes the spool file and returns its contents
func (s *recordingSession) finish() ([]byte, error) {
	if err := s.file.Close(); err != nil {
		return nil, apperr.Internal("Failed to buffer audio", err)
	}
	if s.size == 0 {
		return nil, apperr.BadRequest("ERR_NO_FILE", "No audio received")
	}
	audio, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperr.Internal("Failed to read recording", err)
	}
	return audio, nil
}

// discard removes the spool file
func (s *recordingSession) discard() {
	s.file.Close()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove spool file %s: %v", s.path, err)
	}
}
