package export

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFilename is used when no usable filename is supplied
const DefaultFilename = "transcript"

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename removes characters browsers and filesystems reject
func SanitizeFilename(name string) string {
	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(name, ""))
	if cleaned == "" {
		return DefaultFilename
	}
	return cleaned
}

// ContentDisposition builds an attachment header for an already sanitized
// base name and extension
func ContentDisposition(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s%s"`, encodeFilename(name), ext)
}

// encodeFilename percent-encodes every byte outside the URI component
// unreserved set A-Z a-z 0-9 - _ . ! ~ * ' ( )
func encodeFilename(name string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if keepInComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func keepInComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
