package pipeline

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/imgkit/imgkit/internal/codec"
)

// TextOptions configures a text drawing call. Zero-valued fields fall back
// to the pipeline's configured defaults.
type TextOptions struct {
	FontPath string      // path to a TTF/OTF file; empty selects the builtin face
	Size     float64     // point size, default 20
	Angle    float64     // counter-clockwise degrees, default 0
	X, Y     int         // top-left position of the rendered text
	Color    color.Color // default black
}

// Options is the construction-time configuration surface. All values are
// explicit; nothing is probed from the process environment.
type Options struct {
	// FillColor paints uncovered canvas regions and flattens alpha at
	// encode time when alpha saving is off. Default black.
	FillColor color.NRGBA

	// JPEGQuality is the encode quality 0-100, default 80. Also used as
	// the WebP quality.
	JPEGQuality int

	// PNGCompression is the zlib-style level 0-9, default 0.
	PNGCompression int

	// MemoryLimit caps the decoded pixel footprint in bytes. Zero selects
	// codec.DefaultMemoryLimit (128 MiB).
	MemoryLimit int64

	// Text supplies defaults for AddText and TextSize.
	Text TextOptions

	// Overlays, when set, caches decoded overlay sources so the same
	// watermark can be shared read-only across merges.
	Overlays *OverlayCache
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		FillColor:      color.NRGBA{A: 255},
		JPEGQuality:    80,
		PNGCompression: 0,
		MemoryLimit:    codec.DefaultMemoryLimit,
		Text: TextOptions{
			Size:  20,
			Color: color.NRGBA{A: 255},
		},
	}
}

// SetFillHex sets the fill color from a hex string like "#1a2b3c".
func (o *Options) SetFillHex(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("invalid fill color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	o.FillColor = color.NRGBA{R: r, G: g, B: b, A: 255}
	return nil
}

// merged fills the zero-valued fields of o from the configured defaults.
func (im *Image) merged(o TextOptions) TextOptions {
	d := im.opts.Text
	if o.FontPath == "" {
		o.FontPath = d.FontPath
	}
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.Size <= 0 {
		o.Size = 20
	}
	if o.Color == nil {
		o.Color = d.Color
	}
	if o.Color == nil {
		o.Color = color.NRGBA{A: 255}
	}
	return o
}
