package export

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewRenderer(t *testing.T) {
	font := DefaultFont()

	r, err := NewRenderer(EngineFPDF, font, "", 0)
	if err != nil {
		t.Fatalf("NewRenderer(pdf): %v", err)
	}
	if _, ok := r.(*PDFRenderer); !ok {
		t.Errorf("pdf engine = %T", r)
	}

	r, err = NewRenderer(EngineChrome, font, "/usr/bin/chromium", time.Second)
	if err != nil {
		t.Fatalf("NewRenderer(chrome): %v", err)
	}
	if cr, ok := r.(*ChromeRenderer); !ok || cr.execPath != "/usr/bin/chromium" {
		t.Errorf("chrome engine = %T", r)
	}

	if _, err := NewRenderer("word", font, "", 0); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestResolveFont(t *testing.T) {
	f, err := ResolveFont("", "")
	if err != nil || f.Family != "GoRegular" || len(f.Data) == 0 {
		t.Errorf("default font = %q, %v", f.Family, err)
	}

	if _, err := ResolveFont(filepath.Join(t.TempDir(), "missing.ttf"), ""); err == nil {
		t.Error("expected error for missing font file")
	}
}
