package convert

import (
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/spherical/pdf-converter/internal/domain"
)

// ImageOptions controls first-page rasterization
type ImageOptions struct {
	DPI         float64
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

// DefaultImageOptions renders at 100 DPI into a 600x600 box
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		DPI:         100,
		MaxWidth:    600,
		MaxHeight:   600,
		JPEGQuality: 90,
	}
}

// ImageConverter rasterizes the first page of a PDF to JPEG or PNG
type ImageConverter struct {
	raster domain.Rasterizer
	format domain.TargetFormat
	opts   ImageOptions
}

// NewImageConverter creates a PDF to raster image converter. format must be
// domain.FormatJPEG or domain.FormatPNG.
func NewImageConverter(raster domain.Rasterizer, format domain.TargetFormat, opts ImageOptions) *ImageConverter {
	return &ImageConverter{raster: raster, format: format, opts: opts}
}

// Convert implements domain.Converter
func (c *ImageConverter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	if c.format != domain.FormatJPEG && c.format != domain.FormatPNG {
		return "", unsupportedRaster(c.format)
	}

	return produce(ctx, outputPath, func(ctx context.Context, w io.Writer) error {
		img, err := c.raster.RenderPage(ctx, inputPath, 0, c.opts.DPI)
		if err != nil {
			return err
		}

		img = fitInto(img, c.opts.MaxWidth, c.opts.MaxHeight)

		switch c.format {
		case domain.FormatJPEG:
			err = jpeg.Encode(w, img, &jpeg.Options{Quality: c.opts.JPEGQuality})
		default:
			err = png.Encode(w, img)
		}
		if err != nil {
			return domain.ConversionError("Failed to encode "+string(c.format), err)
		}
		return nil
	})
}

// fitInto scales img so it fits the maxW x maxH box, keeping its aspect
// ratio. A non-positive bound disables scaling.
func fitInto(img image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 || maxH <= 0 {
		return img
	}

	w, h := fitDimensions(img.Bounds().Dx(), img.Bounds().Dy(), maxW, maxH)
	if w == img.Bounds().Dx() && h == img.Bounds().Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func fitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}

	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
