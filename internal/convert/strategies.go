package convert

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spherical/pdf-converter/internal/domain"
)

// PDFRewriter re-serializes a PDF document
type PDFRewriter interface {
	Rewrite(ctx context.Context, pdfPath string, w io.Writer) error
}

// IdentityConverter writes the input PDF back out after a structural round trip
type IdentityConverter struct {
	rewriter PDFRewriter
}

// NewIdentityConverter creates a PDF to PDF converter
func NewIdentityConverter(rewriter PDFRewriter) *IdentityConverter {
	return &IdentityConverter{rewriter: rewriter}
}

// Convert implements domain.Converter
func (c *IdentityConverter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	return produce(ctx, outputPath, func(ctx context.Context, w io.Writer) error {
		return c.rewriter.Rewrite(ctx, inputPath, w)
	})
}

// HTMLConverter wraps the extracted text in a minimal HTML document
type HTMLConverter struct {
	text domain.TextExtractor
}

// NewHTMLConverter creates a PDF to HTML converter
func NewHTMLConverter(text domain.TextExtractor) *HTMLConverter {
	return &HTMLConverter{text: text}
}

// Convert implements domain.Converter
func (c *HTMLConverter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	return produce(ctx, outputPath, func(ctx context.Context, w io.Writer) error {
		text, err := c.text.ExtractText(ctx, inputPath)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, RenderHTML(text)); err != nil {
			return domain.IOError("Failed to write HTML", err)
		}
		return nil
	})
}

// RenderHTML escapes text and places it in an HTML document shell. Line
// breaks are kept as <br>.
func RenderHTML(text string) string {
	body := html.EscapeString(normalizeNewlines(text))
	body = strings.ReplaceAll(body, "\n", "<br>\n")
	return "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n<body>\n" + body + "\n</body>\n</html>\n"
}

// ExcelConverter places the extracted text in cell A1 of a new workbook
type ExcelConverter struct {
	text domain.TextExtractor
}

// NewExcelConverter creates a PDF to XLSX converter
func NewExcelConverter(text domain.TextExtractor) *ExcelConverter {
	return &ExcelConverter{text: text}
}

// sheetName is the single worksheet of the generated workbook
const sheetName = "Sheet1"

// Convert implements domain.Converter
func (c *ExcelConverter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	return produce(ctx, outputPath, func(ctx context.Context, w io.Writer) error {
		text, err := c.text.ExtractText(ctx, inputPath)
		if err != nil {
			return err
		}

		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetCellValue(sheetName, "A1", truncateRunes(text, excelize.TotalCellChars)); err != nil {
			return domain.ConversionError("Failed to fill worksheet", err)
		}
		if _, err := f.WriteTo(w); err != nil {
			return domain.IOError("Failed to write workbook", err)
		}
		return nil
	})
}

// WordConverter embeds the extracted text as one paragraph of a DOCX document
type WordConverter struct {
	text domain.TextExtractor
}

// NewWordConverter creates a PDF to DOCX converter
func NewWordConverter(text domain.TextExtractor) *WordConverter {
	return &WordConverter{text: text}
}

// Convert implements domain.Converter
func (c *WordConverter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	return produce(ctx, outputPath, func(ctx context.Context, w io.Writer) error {
		text, err := c.text.ExtractText(ctx, inputPath)
		if err != nil {
			return err
		}
		if err := writeDocx(w, text); err != nil {
			return domain.IOError("Failed to write document", err)
		}
		return nil
	})
}

func normalizeNewlines(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// compile-time interface checks
var (
	_ domain.Converter = (*IdentityConverter)(nil)
	_ domain.Converter = (*HTMLConverter)(nil)
	_ domain.Converter = (*ExcelConverter)(nil)
	_ domain.Converter = (*WordConverter)(nil)
	_ domain.Converter = (*ImageConverter)(nil)
)

func unsupportedRaster(f domain.TargetFormat) error {
	return domain.ConversionError(fmt.Sprintf("%s is not a raster format", f), nil)
}
