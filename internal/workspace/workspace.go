// Package workspace manages the transient upload and output directories.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/pdf-converter/internal/domain"
)

// OutputPrefix starts the name of every generated output file
const OutputPrefix = "converted_"

// Workspace owns the upload and output directories shared by all requests.
// Requests never share files; names are unique so no locking is needed.
type Workspace struct {
	UploadDir string
	OutputDir string

	now   func() time.Time
	newID func() string
}

// New creates a workspace rooted at the given directories
func New(uploadDir, outputDir string) *Workspace {
	return &Workspace{
		UploadDir: uploadDir,
		OutputDir: outputDir,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Ensure creates both directories if they do not exist yet. It is safe to
// call repeatedly.
func (w *Workspace) Ensure() error {
	for _, dir := range []string{w.UploadDir, w.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.IOError(fmt.Sprintf("create directory %s", dir), err)
		}
	}
	return nil
}

// OutputBase returns a fresh base path (no extension) for one output file,
// of the form <OutputDir>/converted_<unixmilli>_<uuid>.
func (w *Workspace) OutputBase() string {
	name := fmt.Sprintf("%s%d_%s", OutputPrefix, w.now().UnixMilli(), w.newID())
	return filepath.Join(w.OutputDir, name)
}

// UploadPath returns a fresh path in the upload directory
func (w *Workspace) UploadPath(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(w.UploadDir, w.newID()+ext)
}

// Remove deletes path. A path that is already gone is not an error, so
// cleanup can run any number of times.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep removes regular files in both directories whose modification time is
// older than maxAge. It returns the number of removed files. Files left behind
// by a process that died mid-request are reclaimed this way.
func (w *Workspace) Sweep(maxAge time.Duration) (int, error) {
	cutoff := w.now().Add(-maxAge)
	removed := 0
	var errs []error

	for _, dir := range []string{w.UploadDir, w.OutputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = append(errs, err)
			continue
		}

		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			if err := Remove(filepath.Join(dir, e.Name())); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}

	return removed, errors.Join(errs...)
}
