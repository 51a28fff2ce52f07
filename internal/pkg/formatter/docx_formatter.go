package formatter

import (
	"bytes"
	"strings"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"

	docxCodeFont = "Consolas"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(doc Document) ([]byte, error) {
	d := document.New()
	defer d.Close()

	titlePar := d.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(doc.Title)

	d.AddParagraph()

	// One paragraph per line keeps code indentation and blank lines intact
	for _, line := range strings.Split(doc.Body, "\n") {
		run := d.AddParagraph().AddRun()
		if doc.IsCode() {
			run.Properties().SetFontFamily(docxCodeFont)
		}
		run.AddText(line)
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
