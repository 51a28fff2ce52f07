package formatter

import (
	"fmt"

	"github.com/futig/code-companion/internal/entity"
)

// Document is a single action result prepared for export
type Document struct {
	Title    string
	Body     string
	Format   entity.OutputFormat
	FenceTag string
}

// NewDocument builds the export document for a cached action result
func NewDocument(action entity.ActionKind, lang entity.SourceLanguage, text string) Document {
	return Document{
		Title:    action.Title(),
		Body:     text,
		Format:   action.Format(),
		FenceTag: lang.FenceTag,
	}
}

func (d Document) IsCode() bool {
	return d.Format == entity.OutputCode
}

type Formatter interface {
	Format(doc Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	sourceExtension string
}

// NewFactory creates a factory; sourceExtension is used for raw source exports
func NewFactory(sourceExtension string) *Factory {
	return &Factory{sourceExtension: sourceExtension}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.ExportMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.ExportSource:
		return NewSourceFormatter(f.sourceExtension), nil
	case entity.ExportDOCX:
		return NewDOCXFormatter(), nil
	case entity.ExportPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}
