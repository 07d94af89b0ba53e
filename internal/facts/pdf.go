package facts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor is the optional PDF text capability. Whether it is available
// is decided once at construction, never probed per call.
type PDFExtractor interface {
	Available() bool
	ExtractText(data []byte) (string, error)
}

// NewPDFExtractor returns the working extractor, or a disabled one when the
// configuration turns PDF extraction off.
func NewPDFExtractor(enabled bool) PDFExtractor {
	if !enabled {
		return disabledExtractor{}
	}
	return pdfExtractor{}
}

type pdfExtractor struct{}

func (pdfExtractor) Available() bool { return true }

func (pdfExtractor) ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var sb bytes.Buffer
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return sb.String(), nil
}

type disabledExtractor struct{}

func (disabledExtractor) Available() bool { return false }

func (disabledExtractor) ExtractText([]byte) (string, error) {
	return "", fmt.Errorf("pdf text extraction disabled")
}
