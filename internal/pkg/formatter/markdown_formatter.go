package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the title as a heading. Code bodies are wrapped back into a fence.
func (mf *MarkdownFormatter) Format(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", doc.Title)
	if doc.IsCode() {
		fmt.Fprintf(&buf, "```%s\n%s\n```\n", doc.FenceTag, doc.Body)
	} else {
		fmt.Fprintf(&buf, "%s\n", doc.Body)
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
