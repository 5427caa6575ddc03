package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spherical/pdf-converter/internal/domain"
)

// magic is the header every PDF file starts with
var magic = []byte("%PDF-")

// headerWindow is how far into the file the header may appear. Some producers
// emit a few junk bytes before it.
const headerWindow = 1024

// Validator provides input validation for PDF files
type Validator struct {
	// MaxSize rejects files larger than this many bytes; zero disables the check
	MaxSize int64
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePDFPath validates that a file path is valid and points to a PDF
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if info.Size() == 0 {
		return domain.ValidationError("file is empty", nil)
	}

	if v.MaxSize > 0 && info.Size() > v.MaxSize {
		return domain.ValidationError(fmt.Sprintf("file exceeds %d bytes", v.MaxSize), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	defer file.Close()

	head := make([]byte, headerWindow)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return domain.IOError(fmt.Sprintf("cannot read file: %s", path), err)
	}
	if !bytes.Contains(head[:n], magic) {
		return domain.ValidationError("file is not a PDF (missing %PDF- header)", nil)
	}

	return nil
}

// ValidateDPI validates a rasterization density
func (v *Validator) ValidateDPI(dpi float64) error {
	if dpi < 10 || dpi > 1200 {
		return domain.ValidationError(fmt.Sprintf("dpi must be between 10 and 1200, got %g", dpi), nil)
	}
	return nil
}
