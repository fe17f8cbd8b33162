package compose

import (
	"image/color"
	"testing"

	"github.com/imgkit/imgkit/internal/geometry"
	"github.com/imgkit/imgkit/internal/pixel"
)

// solidBuffer creates a w×h buffer filled with c.
func solidBuffer(t *testing.T, w, h int, c color.NRGBA) *pixel.Buffer {
	t.Helper()
	buf := pixel.New(w, h)
	buf.Fill(c)
	return buf
}

func TestNewCanvas(t *testing.T) {
	src := pixel.New(1, 1)
	fill := color.NRGBA{R: 9, G: 8, B: 7, A: 255}

	out := NewCanvas(4, 4, src, fill)
	if got := out.Img.NRGBAAt(2, 2); got != fill {
		t.Errorf("opaque canvas pixel: got %+v, want fill color", got)
	}

	src.AlphaBlending = true
	out = NewCanvas(4, 4, src, fill)
	if got := out.Img.NRGBAAt(2, 2); got.A != 0 {
		t.Errorf("blending canvas pixel: got alpha %d, want transparent", got.A)
	}
	if !out.AlphaBlending {
		t.Error("canvas did not inherit AlphaBlending flag")
	}
}

func TestCopyPlain(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	src := solidBuffer(t, 4, 4, red)
	dst := pixel.New(4, 4)

	CopyPlain(dst, src, geometry.Rect{X: 1, Y: 1, W: 2, H: 2}, geometry.Rect{X: 0, Y: 0, W: 2, H: 2})

	if got := dst.Img.NRGBAAt(1, 1); got != red {
		t.Errorf("copied pixel (1,1): got %+v, want red", got)
	}
	if got := dst.Img.NRGBAAt(2, 2); got != red {
		t.Errorf("copied pixel (2,2): got %+v, want red", got)
	}
	if got := dst.Img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("pixel outside dst rect: got %+v, want untouched", got)
	}
	if got := dst.Img.NRGBAAt(3, 3); got.A != 0 {
		t.Errorf("pixel outside dst rect: got %+v, want untouched", got)
	}
}

func TestCopyPlain_ClipsOutOfBounds(t *testing.T) {
	src := solidBuffer(t, 4, 4, color.NRGBA{B: 255, A: 255})
	dst := pixel.New(4, 4)

	// Regions extending past either buffer must clip, not panic.
	CopyPlain(dst, src, geometry.Rect{X: 3, Y: 3, W: 4, H: 4}, geometry.Rect{X: 2, Y: 2, W: 4, H: 4})
	CopyPlain(dst, src, geometry.Rect{X: -2, Y: -2, W: 4, H: 4}, geometry.Rect{X: 0, Y: 0, W: 4, H: 4})

	if got := dst.Img.NRGBAAt(3, 3); got.B != 255 {
		t.Errorf("clipped copy pixel (3,3): got %+v, want blue", got)
	}
}

func TestCopyResampled(t *testing.T) {
	src := solidBuffer(t, 8, 8, color.NRGBA{R: 200, G: 100, A: 255})
	dst := pixel.New(4, 4)

	CopyResampled(dst, src, geometry.Rect{X: 0, Y: 0, W: 4, H: 4}, geometry.Rect{X: 0, Y: 0, W: 8, H: 8})

	got := dst.Img.NRGBAAt(2, 2)
	if got.A != 255 {
		t.Errorf("resampled alpha: got %d, want 255", got.A)
	}
	// A uniform source must stay (near) uniform under resampling.
	if got.R < 195 || got.R > 205 || got.G < 95 || got.G > 105 {
		t.Errorf("resampled color drifted: got %+v", got)
	}
}

func TestOverlay_OpaqueReplaces(t *testing.T) {
	base := solidBuffer(t, 4, 4, color.NRGBA{B: 255, A: 255})
	over := solidBuffer(t, 2, 2, color.NRGBA{R: 255, A: 255})

	Overlay(base, over, 1, 1)

	if got := base.Img.NRGBAAt(1, 1); got.R != 255 || got.B != 0 {
		t.Errorf("covered pixel: got %+v, want opaque red", got)
	}
	if got := base.Img.NRGBAAt(0, 0); got.B != 255 {
		t.Errorf("uncovered pixel: got %+v, want untouched blue", got)
	}
}

func TestOverlay_TransparentLeavesBase(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	base := solidBuffer(t, 4, 4, blue)
	over := pixel.New(2, 2) // fully transparent

	Overlay(base, over, 1, 1)

	if got := base.Img.NRGBAAt(1, 1); got != blue {
		t.Errorf("pixel under transparent overlay: got %+v, want %+v", got, blue)
	}
}

func TestOverlay_SemiTransparentBlends(t *testing.T) {
	base := solidBuffer(t, 4, 4, color.NRGBA{B: 255, A: 255})
	over := solidBuffer(t, 4, 4, color.NRGBA{R: 255, A: 128})

	Overlay(base, over, 0, 0)

	got := base.Img.NRGBAAt(2, 2)
	if got.R == 0 || got.R == 255 || got.B == 0 || got.B == 255 {
		t.Errorf("blend result not intermediate: got %+v", got)
	}
	if got.A != 255 {
		t.Errorf("blend over opaque base: got alpha %d, want 255", got.A)
	}
}

func TestOverlay_OutOfBoundsDropped(t *testing.T) {
	base := solidBuffer(t, 4, 4, color.NRGBA{G: 255, A: 255})
	over := solidBuffer(t, 2, 2, color.NRGBA{R: 255, A: 255})

	Overlay(base, over, -1, -1)
	Overlay(base, over, 3, 3)

	if base.Width() != 4 || base.Height() != 4 {
		t.Errorf("dimensions changed: got %dx%d", base.Width(), base.Height())
	}
	if got := base.Img.NRGBAAt(0, 0); got.R != 255 {
		t.Errorf("partially visible overlay pixel (0,0): got %+v, want red", got)
	}
	if got := base.Img.NRGBAAt(1, 1); got.G != 255 {
		t.Errorf("pixel (1,1): got %+v, want untouched green", got)
	}
}

func TestOffsetResolve(t *testing.T) {
	tests := []struct {
		name    string
		off     Offset
		baseDim int
		overDim int
		want    int
	}{
		{"start", Anchored(Start), 100, 40, 0},
		{"end", Anchored(End), 100, 40, 60},
		{"center", Anchored(Center), 100, 40, 30},
		{"center rounds", Anchored(Center), 101, 40, 31},
		{"absolute", At(17), 100, 40, 17},
		{"absolute negative", At(-5), 100, 40, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.off.Resolve(tt.baseDim, tt.overDim); got != tt.want {
				t.Errorf("Resolve(%d,%d): got %d, want %d", tt.baseDim, tt.overDim, got, tt.want)
			}
		})
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    Offset
		wantErr bool
	}{
		{"left", Anchored(Start), false},
		{"top", Anchored(Start), false},
		{"RIGHT", Anchored(End), false},
		{"bottom", Anchored(End), false},
		{"center", Anchored(Center), false},
		{" 42 ", At(42), false},
		{"-7", At(-7), false},
		{"sideways", Offset{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOffset(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q): expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOffset(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOffset(%q): got %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
