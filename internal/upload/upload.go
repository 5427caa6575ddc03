// Package upload materializes multipart file uploads on local storage.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/workspace"
)

// DefaultField is the multipart field that carries the PDF
const DefaultField = "pdf"

// DefaultMaxBytes caps the request body size
const DefaultMaxBytes = 50 << 20

// memoryLimit is how much of the form is kept in memory before parts spill
// to temporary files.
const memoryLimit = 8 << 20

// Store decodes uploads and writes them into the workspace upload directory
type Store struct {
	ws       *workspace.Workspace
	field    string
	maxBytes int64
}

// NewStore creates an upload store. Empty field and non-positive maxBytes fall
// back to the defaults.
func NewStore(ws *workspace.Workspace, field string, maxBytes int64) *Store {
	if field == "" {
		field = DefaultField
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{ws: ws, field: field, maxBytes: maxBytes}
}

// Field returns the name of the multipart file field
func (s *Store) Field() string {
	return s.field
}

// Part is a decoded, not yet persisted file part. Close releases it along
// with any temp files the multipart reader created.
type Part struct {
	File   multipart.File
	Header *multipart.FileHeader
	form   *multipart.Form
}

// Close releases the part
func (p *Part) Close() error {
	var errs []error
	if p.File != nil {
		errs = append(errs, p.File.Close())
	}
	if p.form != nil {
		errs = append(errs, p.form.RemoveAll())
	}
	return errors.Join(errs...)
}

// Open parses the multipart body of r and returns the file part. Nothing is
// written to the upload directory. A missing field, a non-multipart body and
// an oversized body are validation errors.
func (s *Store) Open(w http.ResponseWriter, r *http.Request) (*Part, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, domain.ValidationError(fmt.Sprintf("upload exceeds %d bytes", s.maxBytes), err)
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, domain.ValidationError("No file uploaded.", err)
		default:
			return nil, domain.ValidationError("invalid multipart form", err)
		}
	}

	file, header, err := r.FormFile(s.field)
	if err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		return nil, domain.ValidationError("No file uploaded.", err)
	}

	return &Part{File: file, Header: header, form: r.MultipartForm}, nil
}

// Save copies the part into a fresh file of the upload directory. On failure
// no file is left behind.
func (s *Store) Save(p *Part) (*domain.UploadedFile, error) {
	path := s.ws.UploadPath(".pdf")

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, domain.IOError("Failed to create upload file", err)
	}

	n, err := io.Copy(dst, p.File)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = workspace.Remove(path)
		return nil, domain.IOError("Failed to store upload", err)
	}

	contentType := ""
	if p.Header != nil {
		contentType = p.Header.Header.Get("Content-Type")
	}

	return &domain.UploadedFile{
		OriginalName: originalName(p.Header),
		Path:         path,
		Size:         n,
		ContentType:  contentType,
	}, nil
}

func originalName(h *multipart.FileHeader) string {
	if h == nil {
		return ""
	}
	return filepath.Base(h.Filename)
}
