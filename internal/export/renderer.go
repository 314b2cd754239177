package export

import (
	"fmt"
	"time"
)

// Renderer engines
const (
	EngineFPDF   = "pdf"
	EngineChrome = "chrome"
)

// NewRenderer builds the named PDF engine around font
func NewRenderer(engine string, font Font, chromePath string, chromeTimeout time.Duration) (Renderer, error) {
	switch engine {
	case EngineFPDF, "":
		return NewPDFRenderer(font), nil
	case EngineChrome:
		return NewChromeRenderer(font, chromePath, chromeTimeout), nil
	default:
		return nil, fmt.Errorf("unknown PDF renderer %q", engine)
	}
}
