package domain

import (
	"context"
	"image"
)

// Converter turns the PDF at inputPath into a file at outputPath and returns
// that path. On failure no file is left at outputPath.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) (string, error)
}

// TextExtractor pulls the plain text content out of a PDF file
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// Rasterizer renders a single PDF page to an image
type Rasterizer interface {
	RenderPage(ctx context.Context, pdfPath string, page int, dpi float64) (image.Image, error)
}
