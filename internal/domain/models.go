package domain

import (
	"strings"
	"time"
)

// TargetFormat is one of the output formats a PDF can be converted to
type TargetFormat string

const (
	FormatPDF   TargetFormat = "pdf"
	FormatWord  TargetFormat = "word"
	FormatExcel TargetFormat = "excel"
	FormatJPEG  TargetFormat = "jpeg"
	FormatPNG   TargetFormat = "png"
	FormatHTML  TargetFormat = "html"
)

// DefaultFormat is used when a request names no format
const DefaultFormat = FormatPDF

// formatAliases maps every accepted token onto its format
var formatAliases = map[string]TargetFormat{
	"pdf":   FormatPDF,
	"word":  FormatWord,
	"excel": FormatExcel,
	"jpeg":  FormatJPEG,
	"jpg":   FormatJPEG,
	"png":   FormatPNG,
	"html":  FormatHTML,
}

// SupportedTokens lists the accepted format tokens in display order
var SupportedTokens = []string{"pdf", "word", "excel", "jpeg", "jpg", "png", "html"}

// NormalizeToken lowercases and trims a format token
func NormalizeToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// ParseFormat maps a case-insensitive token onto a TargetFormat. An empty
// token selects DefaultFormat.
func ParseFormat(token string) (TargetFormat, error) {
	normalized := NormalizeToken(token)
	if normalized == "" {
		return DefaultFormat, nil
	}
	f, ok := formatAliases[normalized]
	if !ok {
		return "", UnsupportedFormatError(token)
	}
	return f, nil
}

// Extension returns the file extension (without dot) for the format. The
// raster formats keep the spelling the caller used, so "jpg" yields ".jpg".
func (f TargetFormat) Extension(token string) string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatWord:
		return "docx"
	case FormatExcel:
		return "xlsx"
	case FormatJPEG:
		if NormalizeToken(token) == "jpg" {
			return "jpg"
		}
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatHTML:
		return "html"
	}
	return "bin"
}

// ContentType returns the MIME type of files in this format
func (f TargetFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatWord:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// UploadedFile describes an upload materialized on local storage
type UploadedFile struct {
	OriginalName string
	Path         string
	Size         int64
	ContentType  string
}

// ConversionRequest is the per-request unit of work. InputPath is owned by the
// request and deleted once the response cycle ends.
type ConversionRequest struct {
	ID             string
	InputPath      string
	Token          string
	Format         TargetFormat
	OutputBasePath string
	ReceivedAt     time.Time
}

// OutputPath returns the full output path including the format extension
func (r *ConversionRequest) OutputPath() string {
	return r.OutputBasePath + "." + r.Format.Extension(r.Token)
}

// ConversionResult is the file a converter produced
type ConversionResult struct {
	OutputPath string
	Format     TargetFormat
}
