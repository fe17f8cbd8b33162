package pipeline

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"

	"github.com/imgkit/imgkit/internal/codec"
	"github.com/imgkit/imgkit/internal/compose"
	"github.com/imgkit/imgkit/internal/geometry"
	"github.com/imgkit/imgkit/internal/orient"
	"github.com/imgkit/imgkit/internal/pixel"
)

var (
	// ErrNoBuffer means an operation was invoked with no pixel buffer
	// loaded. It is a per-operation failure, not fatal: the caller may
	// check and skip.
	ErrNoBuffer = errors.New("no pixel buffer loaded")

	// ErrOverlayLoad wraps any error hit while resolving a path-based
	// overlay during a merge.
	ErrOverlayLoad = errors.New("failed to load overlay")
)

// Image is the transform pipeline: one pixel buffer plus the state needed
// to run chained operations against it and encode the result. Each
// operation mutates the receiver and returns an error; callers chain by
// short-circuiting on the first failure.
//
// An Image is not safe for concurrent use. An overlay image passed to
// Merge is only read, so one overlay may be shared across pipelines.
type Image struct {
	buf     *pixel.Buffer
	srcPath string
	format  codec.Format
	opts    Options
}

// Open decodes the image at path and normalizes its orientation from EXIF
// metadata when present. Decode admission is checked against the
// configured memory limit before any pixel data is read; a rejected or
// failed load produces no Image at all.
func Open(path string, opts Options) (*Image, error) {
	buf, format, err := codec.Decode(path, opts.MemoryLimit)
	if err != nil {
		return nil, err
	}
	if format == codec.FormatJPEG {
		if code, ok := orient.Read(path); ok {
			orient.Apply(buf, code)
		}
	}
	return &Image{buf: buf, srcPath: path, format: format, opts: opts}, nil
}

// New creates a blank w×h canvas filled with the configured fill color.
func New(w, h int, opts Options) *Image {
	buf := pixel.New(w, h)
	buf.Fill(opts.FillColor)
	return &Image{buf: buf, format: codec.FormatPNG, opts: opts}
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image, opts Options) *Image {
	return &Image{buf: pixel.FromImage(img), format: codec.FormatPNG, opts: opts}
}

// Width returns the current buffer width, or 0 when nothing is loaded.
func (im *Image) Width() int {
	if im.buf == nil {
		return 0
	}
	return im.buf.Width()
}

// Height returns the current buffer height, or 0 when nothing is loaded.
func (im *Image) Height() int {
	if im.buf == nil {
		return 0
	}
	return im.buf.Height()
}

// Format returns the source encoding.
func (im *Image) Format() codec.Format { return im.format }

// SourcePath returns the path the image was opened from, if any.
func (im *Image) SourcePath() string { return im.srcPath }

// Buffer exposes the underlying pixel buffer.
func (im *Image) Buffer() *pixel.Buffer { return im.buf }

// SetAlphaBlending toggles whether composites combine with existing alpha.
func (im *Image) SetAlphaBlending(on bool) {
	if im.buf != nil {
		im.buf.AlphaBlending = on
	}
}

// SetSaveAlpha toggles whether the alpha channel survives encoding.
func (im *Image) SetSaveAlpha(on bool) {
	if im.buf != nil {
		im.buf.SaveAlpha = on
	}
}

// Resize scales the image to w×h. crop selects cover behavior (fill the
// target, crop overflow) and proportional preserves the aspect ratio;
// without crop the image is letterboxed into the target using the fill
// color, or transparency when alpha blending is enabled. Resizing to the
// current size is a no-op.
func (im *Image) Resize(w, h int, crop, proportional bool) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid target size %dx%d", w, h)
	}

	plan := geometry.PlanResize(im.buf.Width(), im.buf.Height(), w, h, crop, proportional)
	if plan.Mode == geometry.Identity {
		return nil
	}

	out := compose.NewCanvas(w, h, im.buf, im.opts.FillColor)
	// Source rectangles are clamped to the buffer so an off-by-one from
	// the centering arithmetic can never read past the pixel array.
	src := geometry.ClampRect(plan.Src, im.buf.Width(), im.buf.Height())
	switch plan.Mode {
	case geometry.CenterCrop, geometry.PadCopy:
		compose.CopyPlain(out, im.buf, plan.Dst, src)
	case geometry.Resample:
		compose.CopyResampled(out, im.buf, plan.Dst, src)
	}
	im.buf = out
	return nil
}

// Crop replaces the buffer with the region between the two corners.
// Corner order does not matter; coordinates are clamped to the buffer.
func (im *Image) Crop(x1, y1, x2, y2 int) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	r := geometry.NormalizeCrop(x1, y1, x2, y2)
	r = geometry.ClampRect(r, im.buf.Width(), im.buf.Height())
	if r.W == 0 || r.H == 0 {
		return fmt.Errorf("empty crop region (%d,%d)-(%d,%d)", x1, y1, x2, y2)
	}
	im.buf.Replace(imaging.Crop(im.buf.Img, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)))
	return nil
}

// Rotate turns the image counter-clockwise by angle degrees. Non-right
// angles grow the bounding box; the uncovered corners are filled with bg,
// or left transparent when bg is nil or ignoreTransparent is set. Alpha
// blending stays enabled afterwards so the corners composite correctly.
func (im *Image) Rotate(angle float64, bg color.Color, ignoreTransparent bool) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	im.buf.AlphaBlending = true
	var corner color.Color = color.NRGBA{}
	if bg != nil && !ignoreTransparent {
		corner = bg
	}
	im.buf.Replace(imaging.Rotate(im.buf.Img, angle, corner))
	return nil
}

// FlipHorizontal mirrors the image left to right.
func (im *Image) FlipHorizontal() error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	im.buf.Replace(imaging.FlipH(im.buf.Img))
	return nil
}

// FlipVertical mirrors the image top to bottom.
func (im *Image) FlipVertical() error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	im.buf.Replace(imaging.FlipV(im.buf.Img))
	return nil
}

// Merge composites overlay onto the image at the resolved position. The
// overlay is only read. For the duration of the copy, alpha blending is
// forced on and alpha saving off; the previous flags are restored after.
func (im *Image) Merge(overlay *Image, x, y compose.Offset) error {
	if overlay == nil || overlay.buf == nil {
		return fmt.Errorf("%w: overlay has no pixel buffer", ErrOverlayLoad)
	}
	return im.mergeBuffer(overlay.buf, x, y)
}

// MergeFile loads an overlay from path and composites it like Merge. Load
// failures are reported as ErrOverlayLoad. When an overlay cache is
// configured the decoded buffer is reused across calls.
func (im *Image) MergeFile(path string, x, y compose.Offset) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	var (
		over *pixel.Buffer
		err  error
	)
	if im.opts.Overlays != nil {
		over, err = im.opts.Overlays.Load(path, im.opts.MemoryLimit)
	} else {
		over, _, err = codec.Decode(path, im.opts.MemoryLimit)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOverlayLoad, err)
	}
	return im.mergeBuffer(over, x, y)
}

func (im *Image) mergeBuffer(over *pixel.Buffer, x, y compose.Offset) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	prevBlend, prevSave := im.buf.AlphaBlending, im.buf.SaveAlpha
	im.buf.AlphaBlending = true
	im.buf.SaveAlpha = false

	px := x.Resolve(im.buf.Width(), over.Width())
	py := y.Resolve(im.buf.Height(), over.Height())
	compose.Overlay(im.buf, over, px, py)

	im.buf.AlphaBlending, im.buf.SaveAlpha = prevBlend, prevSave
	return nil
}

// Opacity rescales the transparency of every pixel toward percent
// (0 = fully transparent, 100 = unchanged). See compose.ApplyOpacity for
// the exact per-pixel formula.
func (im *Image) Opacity(percent int) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	compose.ApplyOpacity(im.buf, percent)
	return nil
}

// Save encodes the image to dest. The format is taken from the optional
// argument, else inferred from dest's extension; unknown extensions
// default to JPEG.
func (im *Image) Save(dest string, format ...codec.Format) error {
	if im.buf == nil {
		return ErrNoBuffer
	}
	f := codec.FormatFromPath(dest)
	if len(format) > 0 && format[0] != "" {
		f = format[0]
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := codec.Encode(out, im.buf, f, codec.EncodeOptions{
		JPEGQuality:    im.opts.JPEGQuality,
		PNGCompression: im.opts.PNGCompression,
		FillColor:      im.opts.FillColor,
	}); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
