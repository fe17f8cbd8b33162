package pipeline

import (
	"errors"
	"image/color"
	"testing"
)

func TestTextSize(t *testing.T) {
	img := FromImage(solidImage(100, 100, color.NRGBA{A: 255}), DefaultOptions())

	// The builtin face advances 7 pixels per glyph and is 13 pixels tall.
	w, h, err := img.TextSize("Hello", TextOptions{})
	if err != nil {
		t.Fatalf("TextSize failed: %v", err)
	}
	if w != 35 {
		t.Errorf("width: got %d, want 35", w)
	}
	if h != 13 {
		t.Errorf("height: got %d, want 13", h)
	}
}

func TestTextSize_EmptyText(t *testing.T) {
	img := FromImage(solidImage(10, 10, color.NRGBA{A: 255}), DefaultOptions())
	if _, _, err := img.TextSize("", TextOptions{}); !errors.Is(err, ErrTextMeasurement) {
		t.Errorf("got %v, want ErrTextMeasurement", err)
	}
}

func TestTextSize_BadFontPath(t *testing.T) {
	img := FromImage(solidImage(10, 10, color.NRGBA{A: 255}), DefaultOptions())
	_, _, err := img.TextSize("x", TextOptions{FontPath: "testdata/missing.ttf"})
	if !errors.Is(err, ErrTextMeasurement) {
		t.Errorf("got %v, want ErrTextMeasurement", err)
	}
}

func TestAddText(t *testing.T) {
	img := FromImage(solidImage(100, 40, color.NRGBA{A: 255}), DefaultOptions())

	err := img.AddText("Hi", TextOptions{X: 5, Y: 5, Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}})
	if err != nil {
		t.Fatalf("AddText failed: %v", err)
	}

	changed := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 100; x++ {
			if img.Buffer().Img.NRGBAAt(x, y).R > 0 {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("AddText drew no pixels")
	}
}

func TestAddText_Rotated(t *testing.T) {
	img := FromImage(solidImage(100, 100, color.NRGBA{A: 255}), DefaultOptions())

	opts := TextOptions{X: 20, Y: 20, Angle: 90, Color: color.NRGBA{G: 255, A: 255}}
	if err := img.AddText("up", opts); err != nil {
		t.Fatalf("AddText rotated failed: %v", err)
	}
	if img.Width() != 100 || img.Height() != 100 {
		t.Errorf("dimensions changed: got %dx%d", img.Width(), img.Height())
	}
}

func TestAddText_NoBuffer(t *testing.T) {
	img := &Image{}
	if err := img.AddText("x", TextOptions{}); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("got %v, want ErrNoBuffer", err)
	}
}

func TestAddRectangle(t *testing.T) {
	img := FromImage(solidImage(50, 50, color.NRGBA{A: 255}), DefaultOptions())
	red := color.NRGBA{R: 255, A: 255}

	if err := img.AddRectangle(10, 10, 20, 20, red); err != nil {
		t.Fatalf("AddRectangle failed: %v", err)
	}

	if got := img.Buffer().Img.NRGBAAt(15, 15); got != red {
		t.Errorf("inside pixel: got %+v, want red", got)
	}
	if got := img.Buffer().Img.NRGBAAt(25, 25); got.R != 0 {
		t.Errorf("outside pixel: got %+v, want untouched", got)
	}
}

func TestAddRectangle_ReversedCorners(t *testing.T) {
	img := FromImage(solidImage(50, 50, color.NRGBA{A: 255}), DefaultOptions())
	red := color.NRGBA{R: 255, A: 255}

	if err := img.AddRectangle(20, 20, 10, 10, red); err != nil {
		t.Fatalf("AddRectangle reversed failed: %v", err)
	}
	if got := img.Buffer().Img.NRGBAAt(15, 15); got != red {
		t.Errorf("inside pixel: got %+v, want red", got)
	}
}

func TestAddRectangle_ClampsToBounds(t *testing.T) {
	img := FromImage(solidImage(30, 30, color.NRGBA{A: 255}), DefaultOptions())
	if err := img.AddRectangle(-10, -10, 100, 100, color.NRGBA{B: 255, A: 255}); err != nil {
		t.Fatalf("AddRectangle failed: %v", err)
	}
	if got := img.Buffer().Img.NRGBAAt(0, 0); got.B != 255 {
		t.Errorf("pixel (0,0): got %+v, want blue", got)
	}
}
