// Package images resizes and re-encodes stored photos for the image
// endpoint.
package images

import (
	"bytes"
	"fmt"
	"image"
	"net/url"
	"strconv"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Fit controls how an image is mapped onto the requested box.
type Fit string

// Supported fit modes.
const (
	// FitContain scales the image down to fit inside the box, keeping
	// the aspect ratio.
	FitContain Fit = "contain"
	// FitCover fills the box and crops the overflow, keeping the
	// aspect ratio.
	FitCover Fit = "cover"
	// FitFill stretches the image to the exact box dimensions.
	FitFill Fit = "fill"
)

// Format selects the output encoding.
type Format string

// Supported output formats.
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// DefaultQuality is the JPEG/WebP quality used when none is requested.
const DefaultQuality = 85

// Options describes one transformation request.
type Options struct {
	Width   int
	Height  int
	Fit     Fit
	Quality int
	Format  Format
}

// IsZero reports whether the request asks for no transformation at all,
// in which case the original bytes can be served untouched.
func (o Options) IsZero() bool {
	return o.Width == 0 && o.Height == 0 && o.Format == ""
}

// ParseOptions reads w, h, fit, q and fm query parameters.
func ParseOptions(q url.Values) (Options, error) {
	opts := Options{
		Fit:     FitContain,
		Quality: DefaultQuality,
	}

	for _, dim := range []struct {
		param  string
		target *int
	}{
		{"w", &opts.Width},
		{"h", &opts.Height},
	} {
		raw := q.Get(dim.param)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > 8192 {
			return Options{}, fmt.Errorf("invalid %s parameter %q", dim.param, raw)
		}
		*dim.target = value
	}

	if raw := q.Get("fit"); raw != "" {
		switch Fit(raw) {
		case FitContain, FitCover, FitFill:
			opts.Fit = Fit(raw)
		default:
			return Options{}, fmt.Errorf("invalid fit parameter %q", raw)
		}
	}

	if raw := q.Get("q"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > 100 {
			return Options{}, fmt.Errorf("invalid q parameter %q", raw)
		}
		opts.Quality = value
	}

	if raw := q.Get("fm"); raw != "" {
		switch Format(raw) {
		case FormatJPEG, FormatPNG, FormatWebP:
			opts.Format = Format(raw)
		default:
			return Options{}, fmt.Errorf("invalid fm parameter %q", raw)
		}
	}

	return opts, nil
}

// Transform decodes src, applies the requested resize and encodes the
// result. It returns the encoded bytes and their content type.
func Transform(src []byte, opts Options) ([]byte, string, error) {
	img, err := decode(src)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	img = resize(img, opts)

	format := opts.Format
	if format == "" {
		format = FormatJPEG
	}

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(opts.Quality)})
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), ContentType(format), nil
}

// ContentType returns the MIME type for a format.
func ContentType(f Format) string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func decode(src []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err == nil {
		return img, nil
	}
	// imaging does not know WebP; fall back before giving up.
	if webpImg, webpErr := webp.Decode(bytes.NewReader(src)); webpErr == nil {
		return webpImg, nil
	}
	return nil, err
}

func resize(img image.Image, opts Options) image.Image {
	width, height := opts.Width, opts.Height
	if width == 0 && height == 0 {
		return img
	}

	switch {
	case width > 0 && height > 0 && opts.Fit == FitCover:
		return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	case width > 0 && height > 0 && opts.Fit == FitFill:
		return imaging.Resize(img, width, height, imaging.Lanczos)
	case width > 0 && height > 0:
		return imaging.Fit(img, width, height, imaging.Lanczos)
	default:
		// One dimension given: scale proportionally regardless of fit.
		return imaging.Resize(img, width, height, imaging.Lanczos)
	}
}
