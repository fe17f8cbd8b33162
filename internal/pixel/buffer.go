package pixel

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Buffer is the in-memory pixel store every transform operates on.
//
// Pixels are held as non-premultiplied RGBA (image.NRGBA), the truecolor+
// alpha model all supported source formats are decoded into. The two flags
// control how later operations treat the alpha channel:
//
//   - AlphaBlending: composites combine with existing pixel alpha instead of
//     overwriting it, and newly allocated canvas regions are left fully
//     transparent rather than filled with a background color.
//   - SaveAlpha: the alpha channel is kept when the buffer is encoded;
//     when false the image is flattened against the fill color first.
//
// A Buffer is exclusively owned by one pipeline instance. Operations that
// change dimensions allocate a fresh NRGBA and swap it in via Replace; the
// pixel slice is never resized in place.
type Buffer struct {
	Img           *image.NRGBA
	AlphaBlending bool
	SaveAlpha     bool
}

// New allocates a w×h buffer with all pixels fully transparent.
func New(w, h int) *Buffer {
	return &Buffer{Img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// FromImage converts any decoded image to an owned NRGBA buffer.
func FromImage(img image.Image) *Buffer {
	return &Buffer{Img: imaging.Clone(img)}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.Img.Bounds().Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.Img.Bounds().Dy() }

// Replace swaps in a new pixel array, keeping the alpha-mode flags.
func (b *Buffer) Replace(img *image.NRGBA) {
	b.Img = img
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.Color) {
	draw.Draw(b.Img, b.Img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clone returns a deep copy sharing no pixel storage with b.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Img:           imaging.Clone(b.Img),
		AlphaBlending: b.AlphaBlending,
		SaveAlpha:     b.SaveAlpha,
	}
}

// The opacity transform works in a 7-bit alpha domain where 0 is fully
// opaque and 127 fully transparent. These helpers convert between that
// scale and the 8-bit NRGBA alpha (255 opaque, 0 transparent).

// AlphaTo7 converts an 8-bit NRGBA alpha to the 7-bit scale.
func AlphaTo7(a uint8) uint8 {
	return (255 - a) >> 1
}

// AlphaFrom7 converts a 7-bit alpha back to 8-bit NRGBA alpha.
// 127 maps to fully transparent (0).
func AlphaFrom7(a7 uint8) uint8 {
	if a7 >= 127 {
		return 0
	}
	return 255 - a7<<1
}
