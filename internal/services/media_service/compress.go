package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1920
	DefaultTargetBytes  = 1 << 20
	DefaultQuality      = 85
	DefaultMinQuality   = 45
	qualityStep         = 10
)

var ErrUnsupportedImage = errors.New("unsupported image")

type CompressOptions struct {
	MaxDimension int
	TargetBytes  int64
	Quality      int
	MinQuality   int
}

func (o CompressOptions) withDefaults() CompressOptions {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.TargetBytes <= 0 {
		o.TargetBytes = DefaultTargetBytes
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MinQuality <= 0 || o.MinQuality > o.Quality {
		o.MinQuality = min(DefaultMinQuality, o.Quality)
	}
	return o
}

// Compressed is an image re-encoded for upload.
type Compressed struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
	Quality     int
}

// Compress bounds an image to MaxDimension on its longest side and
// re-encodes it as JPEG, lowering quality in steps until the result fits
// TargetBytes or MinQuality is reached. PNGs with transparency stay PNG.
// Images are never upscaled.
func Compress(r io.Reader, opts CompressOptions) (*Compressed, error) {
	opts = opts.withDefaults()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	b := img.Bounds()
	if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
		img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
	}
	b = img.Bounds()

	out := &Compressed{Width: b.Dx(), Height: b.Dy()}

	if format == "png" && !opaque(img) {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, err
		}
		out.Data, out.ContentType, out.Ext = buf.Bytes(), "image/png", ".png"
		return out, nil
	}

	for q := opts.Quality; ; q -= qualityStep {
		if q < opts.MinQuality {
			q = opts.MinQuality
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, err
		}
		out.Data, out.Quality = buf.Bytes(), q

		if int64(buf.Len()) <= opts.TargetBytes || q == opts.MinQuality {
			break
		}
	}
	out.ContentType, out.Ext = "image/jpeg", ".jpg"

	return out, nil
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}
