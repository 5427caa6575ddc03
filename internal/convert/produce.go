// Package convert implements the PDF conversion strategies and the dispatcher
// that selects one of them from a requested format token.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spherical/pdf-converter/internal/domain"
)

// writeFunc streams one converted document into w
type writeFunc func(ctx context.Context, w io.Writer) error

// produce runs write against a hidden sibling of outputPath and renames it
// into place on success. If ctx ends first the call returns immediately and
// the background write discards its temp file when it finishes, so outputPath
// only ever holds a complete document.
func produce(ctx context.Context, outputPath string, write writeFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", contextError(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".partial-*")
	if err != nil {
		return "", domain.IOError("Failed to create output file", err)
	}
	tmpPath := tmp.Name()

	var (
		mu        sync.Mutex
		abandoned bool
	)
	done := make(chan error, 1)

	go func() {
		err := safeWrite(ctx, tmp, write)
		if cerr := tmp.Close(); err == nil && cerr != nil {
			err = domain.IOError("Failed to close output file", cerr)
		}

		mu.Lock()
		defer mu.Unlock()
		if err == nil && !abandoned {
			if rerr := os.Rename(tmpPath, outputPath); rerr != nil {
				err = domain.IOError("Failed to publish output file", rerr)
			}
		}
		if err != nil || abandoned {
			_ = os.Remove(tmpPath)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", err
		}
		return outputPath, nil
	case <-ctx.Done():
		mu.Lock()
		abandoned = true
		mu.Unlock()
		return "", contextError(ctx.Err())
	}
}

// safeWrite turns a panic inside a conversion library into a ConversionError
func safeWrite(ctx context.Context, w io.Writer, write writeFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.ConversionError("converter panicked", fmt.Errorf("%v", r))
		}
	}()
	return write(ctx, w)
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TimeoutError("conversion deadline exceeded", err)
	}
	return domain.ConversionError("conversion canceled", err)
}
