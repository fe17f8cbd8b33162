// Package codec is the boundary to the image codecs: it decodes GIF, JPEG,
// PNG and WebP sources into pixel buffers, encodes buffers back out, and
// enforces the decode-time memory admission check.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/imgkit/imgkit/internal/pixel"
)

// Format identifies an image encoding.
type Format string

const (
	FormatGIF  Format = "gif"
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"

	// PNG aliases accepted on the encode side.
	FormatPNG8  Format = "png8"
	FormatPNG24 Format = "png24"
)

// DefaultMemoryLimit is the decode admission ceiling when none is
// configured: 128 MiB of decoded pixel data.
const DefaultMemoryLimit = 128 << 20

const bytesPerPixel = 4 // RGBA8

var (
	// ErrSourceNotFound means the referenced path does not exist.
	ErrSourceNotFound = errors.New("source image not found")

	// ErrMemoryLimit means the decoded size would exceed the configured
	// ceiling. Raised before any pixel data is read.
	ErrMemoryLimit = errors.New("decoded image would exceed memory limit")

	// ErrUnsupportedFormat means the source is not GIF, JPEG, PNG or WebP.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDecodeFailure means the codec produced no usable pixel buffer.
	ErrDecodeFailure = errors.New("image decode failed")
)

// Decode reads the image at path into an NRGBA pixel buffer.
//
// Before any pixel data is decoded the header is probed for dimensions and
// the projected footprint width*height*4 is checked against maxBytes
// (DefaultMemoryLimit when maxBytes <= 0). Oversized sources are rejected
// with ErrMemoryLimit without ever being loaded.
func Decode(path string, maxBytes int64) (*pixel.Buffer, Format, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMemoryLimit
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, name, err := image.DecodeConfig(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	format, ok := formatFromRegistered(name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	footprint := int64(cfg.Width) * int64(cfg.Height) * bytesPerPixel
	if footprint > maxBytes {
		return nil, "", fmt.Errorf("%w: %dx%d needs %d bytes, limit %d",
			ErrMemoryLimit, cfg.Width, cfg.Height, footprint, maxBytes)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to rewind image: %w", err)
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	return pixel.FromImage(img), format, nil
}

// EncodeOptions carries the per-format encode parameters.
type EncodeOptions struct {
	JPEGQuality    int         // 0-100, default 80
	PNGCompression int         // 0-9 zlib level
	FillColor      color.Color // background when alpha is flattened
}

// Encode writes buf to w in the given format. Formats outside the
// supported set fall back to JPEG. When the buffer's SaveAlpha flag is
// off, or the target format cannot carry alpha, the image is flattened
// against opts.FillColor first.
func Encode(w io.Writer, buf *pixel.Buffer, format Format, opts EncodeOptions) error {
	img := buf.Img
	switch format {
	case FormatGIF:
		if !buf.SaveAlpha {
			img = flatten(img, opts.FillColor)
		}
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("failed to encode gif: %w", err)
		}
	case FormatPNG, FormatPNG8, FormatPNG24:
		if !buf.SaveAlpha {
			img = flatten(img, opts.FillColor)
		}
		enc := png.Encoder{CompressionLevel: pngLevel(opts.PNGCompression)}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatWebP:
		if !buf.SaveAlpha {
			img = flatten(img, opts.FillColor)
		}
		q := float32(opts.JPEGQuality)
		if q <= 0 {
			q = 80
		}
		if err := webp.Encode(w, img, &webp.Options{Quality: q}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		// JPEG carries no alpha channel.
		img = flatten(img, opts.FillColor)
		q := opts.JPEGQuality
		if q <= 0 {
			q = 80
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: q}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}
	return nil
}

// FormatFromPath infers the encode format from a file extension,
// lower-cased. Unknown or missing extensions default to JPEG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return FormatGIF
	case ".png":
		return FormatPNG
	case ".webp":
		return FormatWebP
	default:
		return FormatJPEG
	}
}

func formatFromRegistered(name string) (Format, bool) {
	switch name {
	case "gif":
		return FormatGIF, true
	case "jpeg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	case "webp":
		return FormatWebP, true
	}
	return "", false
}

// pngLevel maps a 0-9 zlib-style compression level onto the stdlib
// encoder's coarser settings. Zero keeps the encoder default.
func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.DefaultCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// flatten composites img over a fill-colored canvas, discarding alpha.
func flatten(img *image.NRGBA, fill color.Color) *image.NRGBA {
	if fill == nil {
		fill = color.NRGBA{A: 255}
	}
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
