package pipeline

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/imgkit/imgkit/internal/compose"
	"github.com/imgkit/imgkit/internal/geometry"
	"github.com/imgkit/imgkit/internal/pixel"
)

// ErrTextMeasurement means the font metric query produced no usable size.
var ErrTextMeasurement = errors.New("text measurement failed")

// TextSize measures the rendered extent of text under the given options,
// returning width and height in pixels.
func (im *Image) TextSize(text string, o TextOptions) (int, int, error) {
	o = im.merged(o)
	face, err := loadFace(o.FontPath, o.Size)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrTextMeasurement, err)
	}
	w, h := measure(face, text)
	if w == 0 || h == 0 {
		return 0, 0, ErrTextMeasurement
	}
	return w, h, nil
}

// AddText renders text onto the image at the configured position. The text
// is rasterized on a transparent scratch buffer, rotated when an angle is
// set, and composited with source-over blending so partially transparent
// glyph edges blend into the image.
func (im *Image) AddText(text string, o TextOptions) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	o = im.merged(o)
	face, err := loadFace(o.FontPath, o.Size)
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	w, h := measure(face, text)
	if w == 0 || h == 0 {
		return ErrTextMeasurement
	}

	scratch := pixel.New(w, h)
	d := &font.Drawer{
		Dst:  scratch.Img,
		Src:  image.NewUniform(o.Color),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	if o.Angle != 0 {
		scratch.Replace(imaging.Rotate(scratch.Img, o.Angle, color.NRGBA{}))
	}
	compose.Overlay(im.buf, scratch, o.X, o.Y)
	return nil
}

// AddRectangle fills the region between the two corners with c. Corner
// order does not matter. With alpha blending enabled the color composites
// over the existing pixels; otherwise it overwrites them.
func (im *Image) AddRectangle(x1, y1, x2, y2 int, c color.Color) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	r := geometry.NormalizeCrop(x1, y1, x2, y2)
	r = geometry.ClampRect(r, im.buf.Width(), im.buf.Height())
	if r.W == 0 || r.H == 0 {
		return fmt.Errorf("empty rectangle (%d,%d)-(%d,%d)", x1, y1, x2, y2)
	}

	op := draw.Src
	if im.buf.AlphaBlending {
		op = draw.Over
	}
	draw.Draw(im.buf.Img,
		image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H),
		image.NewUniform(c), image.Point{}, op)
	return nil
}

// loadFace opens a TTF/OTF face at the given size. An empty path selects
// the builtin fixed-size face.
func loadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func measure(face font.Face, text string) (int, int) {
	w := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	if text == "" {
		return 0, 0
	}
	return w, h
}
