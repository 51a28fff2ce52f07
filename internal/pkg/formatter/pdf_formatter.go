package formatter

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name gofpdf registers the UTF-8 font under
	pdfFontName = "GoMono"

	pdfTabWidth = 4
)

// PDFFormatter renders a document with the Go Mono font, which covers the
// WGL4 character set so arrows and box drawing survive the export.
type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func (mf *PDFFormatter) Format(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFontName, "", gomono.TTF)
	pdf.AddUTF8FontFromBytes(pdfFontName, "B", gomonobold.TTF)
	pdf.AddPage()

	pdf.SetFont(pdfFontName, "B", 16)
	pdf.MultiCell(0, 8, doc.Title, "", "", false)
	pdf.Ln(4)

	size := 10.0
	if doc.IsCode() {
		size = 9
	}
	pdf.SetFont(pdfFontName, "", size)
	_, lineHeight := pdf.GetFontSize()

	body := strings.ReplaceAll(doc.Body, "\t", strings.Repeat(" ", pdfTabWidth))
	pdf.MultiCell(0, lineHeight*1.4, body, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
