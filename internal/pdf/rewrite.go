package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/spherical/pdf-converter/internal/domain"
)

var disableConfigDir sync.Once

// Rewriter loads a PDF structurally and serializes it again using pdfcpu.
// The result is content-equivalent to the input, not byte-identical.
type Rewriter struct {
	validator *Validator
	conf      *model.Configuration
}

// NewRewriter creates a rewriter with relaxed validation
func NewRewriter() *Rewriter {
	// pdfcpu otherwise writes a config.yml under the user config dir.
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Rewriter{
		validator: NewValidator(),
		conf:      conf,
	}
}

// Rewrite parses the PDF at pdfPath and writes the re-serialized document to w
func (rw *Rewriter) Rewrite(ctx context.Context, pdfPath string, w io.Writer) (err error) {
	if err := rw.validator.ValidatePDFPath(pdfPath); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = domain.ConversionError("Failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	f, err := os.Open(pdfPath)
	if err != nil {
		return domain.IOError("Failed to open PDF", err)
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, rw.conf)
	if err != nil {
		return domain.ConversionError("Failed to load PDF", err)
	}

	if err := api.WriteContext(pctx, w); err != nil {
		return domain.ConversionError("Failed to write PDF", err)
	}

	return nil
}
