package pdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Rasterizer implements page rendering using go-fitz
type Rasterizer struct {
	validator *Validator
}

// NewRasterizer creates a new PDF rasterizer instance
func NewRasterizer() *Rasterizer {
	return &Rasterizer{validator: NewValidator()}
}

// RenderPage renders the zero-based page of pdfPath at the given density
func (r *Rasterizer) RenderPage(ctx context.Context, pdfPath string, page int, dpi float64) (image.Image, error) {
	if err := r.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateDPI(dpi); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("Failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}
	if page < 0 || page >= pageCount {
		return nil, domain.ValidationError(fmt.Sprintf("page %d out of range (document has %d pages)", page+1, pageCount), nil)
	}

	img, err := doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, domain.ConversionError(fmt.Sprintf("Failed to render page %d", page+1), err)
	}

	return img, nil
}
