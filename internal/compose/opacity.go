package compose

import (
	"math"

	"github.com/imgkit/imgkit/internal/pixel"
)

// ApplyOpacity rescales every pixel's transparency toward percent, leaving
// RGB untouched.
//
// The math runs in the 7-bit alpha domain (0 = opaque, 127 = transparent):
//
//	new = 127 + (percent/100) * (old - 127)
//
// so percent=100 leaves the pixel unchanged, percent=0 makes it fully
// transparent, and intermediate values interpolate linearly. Note this is
// an interpolation toward full transparency, not a multiplicative scale of
// the existing alpha. Fractional results round half up.
func ApplyOpacity(buf *pixel.Buffer, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	f := float64(percent) / 100

	pix := buf.Img.Pix
	for i := 3; i < len(pix); i += 4 {
		a7 := float64(pixel.AlphaTo7(pix[i]))
		n := math.Floor(127 + f*(a7-127) + 0.5)
		if n < 0 {
			n = 0
		}
		if n > 127 {
			n = 127
		}
		pix[i] = pixel.AlphaFrom7(uint8(n))
	}
}
