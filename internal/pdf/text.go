package pdf

import (
	"bytes"
	"context"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/spherical/pdf-converter/internal/domain"
)

// TextExtractor reads the plain text of every page using ledongthuc/pdf
type TextExtractor struct {
	validator *Validator
}

// NewTextExtractor creates a new text extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{validator: NewValidator()}
}

// ExtractText returns all text content of the PDF, pages in order. Layout and
// formatting are not preserved.
func (e *TextExtractor) ExtractText(ctx context.Context, pdfPath string) (text string, err error) {
	if err := e.validator.ValidatePDFPath(pdfPath); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = domain.ConversionError("Failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	f, reader, err := lpdf.Open(pdfPath)
	if err != nil {
		return "", domain.ConversionError("Failed to open PDF", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", domain.ConversionError("Failed to extract text", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", domain.ConversionError("Failed to read extracted text", err)
	}

	return buf.String(), nil
}
