package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/code-companion/internal/entity"
)

const sourceContentType = "text/plain; charset=utf-8"

// SourceFormatter writes a code result as a ready-to-save source file
type SourceFormatter struct {
	extension string
}

func NewSourceFormatter(extension string) *SourceFormatter {
	return &SourceFormatter{extension: extension}
}

func (sf *SourceFormatter) Format(doc Document) ([]byte, error) {
	if !doc.IsCode() {
		return nil, fmt.Errorf("%w: %q result is not source code", entity.ErrUnsupportedFormat, doc.Title)
	}
	body := doc.Body
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return []byte(body), nil
}

func (sf *SourceFormatter) ContentType() string {
	return sourceContentType
}

func (sf *SourceFormatter) FileExtension() string {
	return sf.extension
}
