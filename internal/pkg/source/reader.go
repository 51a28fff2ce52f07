// Package source decodes uploaded source files into text.
package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/futig/code-companion/internal/entity"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts raw file bytes to text. UTF-8 is assumed unless a BOM
// selects UTF-16; invalid sequences become U+FFFD, a UTF-8 BOM is dropped
// and CRLF line endings become LF.
func Decode(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidEncoding, err)
	}

	text := strings.ReplaceAll(string(decoded), "\r\n", "\n")
	if strings.ContainsRune(text, '\x00') {
		return "", fmt.Errorf("%w: binary content", entity.ErrInvalidEncoding)
	}

	return text, nil
}

// Read reads at most limit bytes from r and decodes them
func Read(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", entity.ErrFileTooLarge, limit)
	}

	return Decode(data)
}
