package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Font is a TrueType font embedded into every exported PDF
type Font struct {
	Family string
	Data   []byte
}

// DefaultFont is the built-in Go Regular face. It covers Latin, Greek and
// Cyrillic; configure a Noto font for Devanagari and other scripts. Text the
// face cannot draw is rejected by MissingRune rather than rendered blank.
func DefaultFont() Font {
	return Font{Family: "GoRegular", Data: goregular.TTF}
}

// LoadFont reads a TrueType font from disk
func LoadFont(path, family string) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, fmt.Errorf("read font %s: %w", path, err)
	}
	if family == "" {
		family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Font{Family: family, Data: data}, nil
}

// ResolveFont loads the font at path, or the built-in face when path is empty
func ResolveFont(path, family string) (Font, error) {
	if path == "" {
		return DefaultFont(), nil
	}
	return LoadFont(path, family)
}

// MissingRune returns the first visible rune in texts the font has no glyph
// for. ok is false when every rune is covered.
func (f Font) MissingRune(texts ...string) (r rune, ok bool, err error) {
	face, err := sfnt.Parse(f.Data)
	if err != nil {
		return 0, false, fmt.Errorf("parse font %s: %w", f.Family, err)
	}

	var buf sfnt.Buffer
	for _, text := range texts {
		for _, ch := range text {
			if unicode.IsSpace(ch) || unicode.IsControl(ch) || unicode.Is(unicode.Cf, ch) {
				continue
			}
			idx, err := face.GlyphIndex(&buf, ch)
			if err != nil {
				return 0, false, fmt.Errorf("lookup %q in %s: %w", ch, f.Family, err)
			}
			if idx == 0 {
				return ch, true, nil
			}
		}
	}
	return 0, false, nil
}
