// Package orient corrects image orientation from embedded EXIF metadata.
//
// Cameras store sensor data unrotated and record how the device was held
// in the EXIF orientation tag (codes 1-8). Apply replays the rotations and
// flips needed to make the pixels upright, once, immediately after decode.
package orient

import (
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/imgkit/imgkit/internal/pixel"
)

// Apply normalizes buf according to an EXIF orientation code. Codes
// outside 1-8 (including the "missing" zero value) are a no-op. Rotations
// are counter-clockwise; 90 and 270 degree rotations swap the buffer's
// dimensions.
func Apply(buf *pixel.Buffer, code int) {
	img := buf.Img
	switch code {
	case 2:
		img = imaging.FlipH(img)
	case 3:
		img = imaging.FlipV(imaging.FlipH(img))
	case 4:
		img = imaging.FlipV(img)
	case 5:
		img = imaging.FlipH(imaging.Rotate90(img))
	case 6:
		img = imaging.Rotate270(img)
	case 7:
		img = imaging.FlipV(imaging.FlipH(imaging.Rotate90(img)))
	case 8:
		img = imaging.Rotate90(img)
	default:
		return
	}
	buf.Replace(img)
}

// Read looks up the EXIF orientation code for the image at path. The
// second return is false when the file carries no usable orientation tag;
// that is the common case and never an error.
func Read(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 0, false
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0, false
	}
	code, err := tag.Int(0)
	if err != nil || code < 1 || code > 8 {
		return 0, false
	}
	return code, true
}
