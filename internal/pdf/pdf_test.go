package pdf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/pdf/pdftest"
)

func TestValidator_ValidatePDFPath(t *testing.T) {
	dir := t.TempDir()
	valid := pdftest.WriteFile(t, dir, "ok.pdf", "Hello")

	notPDF := filepath.Join(dir, "plain.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("just text"), 0o644))

	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid pdf", valid, false},
		{"empty path", "  ", true},
		{"missing file", filepath.Join(dir, "missing.pdf"), true},
		{"directory", dir, true},
		{"empty file", empty, true},
		{"not a pdf", notPDF, true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePDFPath(tt.path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.ErrorTypeOf(err))
		})
	}
}

func TestValidator_MaxSize(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "big.pdf", "Hello")
	v := &Validator{MaxSize: 10}
	assert.Error(t, v.ValidatePDFPath(path))
}

func TestValidator_ValidateDPI(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateDPI(100))
	assert.Error(t, v.ValidateDPI(0))
	assert.Error(t, v.ValidateDPI(5000))
}

func TestTextExtractor_ExtractText(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "text.pdf", "Hello Converter")

	text, err := NewTextExtractor().ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello Converter")
}

func TestTextExtractor_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.pdf")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	_, err := NewTextExtractor().ExtractText(context.Background(), path)
	assert.True(t, domain.IsClientError(err))
}

func TestTextExtractor_CanceledContext(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "text.pdf", "Hello")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTextExtractor().ExtractText(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRewriter_Rewrite(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "in.pdf", "Round trip")

	var out bytes.Buffer
	err := NewRewriter().Rewrite(context.Background(), path, &out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Contains(t, out.String(), "%%EOF")
}

func TestRasterizer_RenderPage(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "page.pdf", "Raster")

	img, err := NewRasterizer().RenderPage(context.Background(), path, 0, 72)
	require.NoError(t, err)

	// 612x792pt page at 72 dpi
	bounds := img.Bounds()
	assert.InDelta(t, 612, bounds.Dx(), 2)
	assert.InDelta(t, 792, bounds.Dy(), 2)
}

func TestRasterizer_PageOutOfRange(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "page.pdf", "Raster")

	_, err := NewRasterizer().RenderPage(context.Background(), path, 3, 72)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.ErrorTypeOf(err))
}
