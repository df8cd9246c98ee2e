// Package charset decodes dataset files to UTF-8. Coordinate exports from
// European planning tools commonly arrive as Windows-1250 or ISO-8859-2.
package charset

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingISO88592    Encoding = "iso-8859-2"
)

// DetectEncoding detects the encoding of a byte buffer. Valid UTF-8 wins;
// anything else is assumed to be Windows-1250, the most common legacy
// export encoding in this domain.
func DetectEncoding(data []byte) Encoding {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1250
}

// Decode converts a byte buffer from the specified encoding to a UTF-8
// string. Data that is already valid UTF-8 is passed through regardless of
// the declared encoding, which avoids double-decoding mislabeled files.
func Decode(data []byte, enc Encoding) (string, error) {
	if utf8.Valid(data) {
		return stripBOM(string(data)), nil
	}

	var cm *charmap.Charmap
	switch enc {
	case EncodingISO88592:
		cm = charmap.ISO8859_2
	case EncodingWindows1250, EncodingUTF8, "":
		cm = charmap.Windows1250
	default:
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}

	decoded, err := io.ReadAll(transform.NewReader(strings.NewReader(string(data)), cm.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s content: %w", enc, err)
	}
	return stripBOM(string(decoded)), nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
