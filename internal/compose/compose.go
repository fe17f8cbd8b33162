// Package compose implements the pixel-level copy, resample and blend
// operations that execute geometry plans, plus the per-pixel opacity
// transform and the overlay position model.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/imgkit/imgkit/internal/geometry"
	"github.com/imgkit/imgkit/internal/pixel"
)

// NewCanvas allocates a w×h buffer carrying src's alpha-mode flags. With
// alpha blending enabled the canvas is left fully transparent; otherwise it
// is filled with fill so uncovered regions show the background color.
func NewCanvas(w, h int, src *pixel.Buffer, fill color.Color) *pixel.Buffer {
	out := pixel.New(w, h)
	out.AlphaBlending = src.AlphaBlending
	out.SaveAlpha = src.SaveAlpha
	if !src.AlphaBlending {
		out.Fill(fill)
	}
	return out
}

// CopyPlain copies the srcRect region of src onto dst at dstRect's origin,
// pixel for pixel. Pixels falling outside either buffer are dropped.
func CopyPlain(dst, src *pixel.Buffer, dstRect, srcRect geometry.Rect) {
	w := srcRect.W
	if dstRect.W < w {
		w = dstRect.W
	}
	h := srcRect.H
	if dstRect.H < h {
		h = dstRect.H
	}
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			sx, sy := srcRect.X+dx, srcRect.Y+dy
			tx, ty := dstRect.X+dx, dstRect.Y+dy
			if !inBounds(src.Img, sx, sy) || !inBounds(dst.Img, tx, ty) {
				continue
			}
			si := src.Img.PixOffset(sx, sy)
			ti := dst.Img.PixOffset(tx, ty)
			copy(dst.Img.Pix[ti:ti+4], src.Img.Pix[si:si+4])
		}
	}
}

// CopyResampled scales the srcRect region of src onto the dstRect region
// of dst using Lanczos resampling.
func CopyResampled(dst, src *pixel.Buffer, dstRect, srcRect geometry.Rect) {
	region := imaging.Crop(src.Img, image.Rect(
		srcRect.X, srcRect.Y, srcRect.X+srcRect.W, srcRect.Y+srcRect.H))
	scaled := imaging.Resize(region, dstRect.W, dstRect.H, imaging.Lanczos)
	draw.Draw(dst.Img,
		image.Rect(dstRect.X, dstRect.Y, dstRect.X+dstRect.W, dstRect.Y+dstRect.H),
		scaled, image.Point{}, draw.Src)
}

// Overlay composites over onto base at (x, y) using source-over blending:
// the overlay's color dominates proportionally to its own alpha, and alpha
// accumulates the same way. Overlay pixels landing outside base are
// silently dropped, so negative or oversized positions are safe.
func Overlay(base, over *pixel.Buffer, x, y int) {
	base.Replace(imaging.Overlay(base.Img, over.Img, image.Pt(x, y), 1.0))
}

func inBounds(img *image.NRGBA, x, y int) bool {
	b := img.Bounds()
	return x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y
}

// Anchor names a symbolic overlay position along one axis.
type Anchor int

const (
	Start  Anchor = iota // left or top
	Center               // centered
	End                  // right or bottom
)

// Offset is an overlay position along one axis: either an absolute pixel
// offset (which may be negative or out of bounds) or a named anchor
// resolved against the base and overlay dimensions.
type Offset struct {
	Anchor   Anchor
	Abs      int
	Absolute bool
}

// At returns an absolute offset.
func At(n int) Offset { return Offset{Abs: n, Absolute: true} }

// Anchored returns a named offset.
func Anchored(a Anchor) Offset { return Offset{Anchor: a} }

// Resolve converts the offset to a concrete pixel position for an overlay
// of overDim pixels inside a base of baseDim pixels.
func (o Offset) Resolve(baseDim, overDim int) int {
	if o.Absolute {
		return o.Abs
	}
	switch o.Anchor {
	case End:
		return baseDim - overDim
	case Center:
		return geometry.CenterOffset(baseDim, overDim)
	default:
		return 0
	}
}

// ParseOffset interprets a textual position: "left", "top", "right",
// "bottom", "center", or a decimal pixel offset.
func ParseOffset(s string) (Offset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "top":
		return Anchored(Start), nil
	case "center", "middle":
		return Anchored(Center), nil
	case "right", "bottom":
		return Anchored(End), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Offset{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return At(n), nil
}
