package convert

import (
	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/pdf"
)

// Dispatcher maps format tokens onto converter strategies. Register must not
// be called concurrently with Resolve.
type Dispatcher struct {
	converters map[domain.TargetFormat]domain.Converter
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{converters: make(map[domain.TargetFormat]domain.Converter)}
}

// NewDefaultDispatcher wires the five library-backed strategies
func NewDefaultDispatcher(imageOpts ImageOptions) *Dispatcher {
	text := pdf.NewTextExtractor()
	raster := pdf.NewRasterizer()

	d := NewDispatcher()
	d.Register(domain.FormatPDF, NewIdentityConverter(pdf.NewRewriter()))
	d.Register(domain.FormatWord, NewWordConverter(text))
	d.Register(domain.FormatExcel, NewExcelConverter(text))
	d.Register(domain.FormatJPEG, NewImageConverter(raster, domain.FormatJPEG, imageOpts))
	d.Register(domain.FormatPNG, NewImageConverter(raster, domain.FormatPNG, imageOpts))
	d.Register(domain.FormatHTML, NewHTMLConverter(text))
	return d
}

// Register installs the converter used for format
func (d *Dispatcher) Register(format domain.TargetFormat, c domain.Converter) {
	d.converters[format] = c
}

// Resolve selects the converter for a case-insensitive token. An empty token
// selects PDF. Unknown tokens fail with an unsupported_format error before any
// file is touched.
func (d *Dispatcher) Resolve(token string) (domain.TargetFormat, domain.Converter, error) {
	format, err := domain.ParseFormat(token)
	if err != nil {
		return "", nil, err
	}

	c, ok := d.converters[format]
	if !ok {
		return "", nil, domain.UnsupportedFormatError(token)
	}
	return format, c, nil
}

// Formats lists the tokens this dispatcher accepts
func (d *Dispatcher) Formats() []string {
	tokens := make([]string, 0, len(domain.SupportedTokens))
	for _, token := range domain.SupportedTokens {
		if _, _, err := d.Resolve(token); err == nil {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
