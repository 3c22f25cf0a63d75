package extractor

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText reads UTF-8 and falls back to Windows-1252. The fallback is refused when it
// produces replacement or control characters, which means the bytes were neither encoding.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}

	for _, r := range string(decoded) {
		if r == utf8.RuneError || (unicode.IsControl(r) && !isTextSpace(r)) {
			return "", fmt.Errorf("%w: neither utf-8 nor windows-1252", ErrUnsupportedEncoding)
		}
	}

	return string(decoded), nil
}

func isTextSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
