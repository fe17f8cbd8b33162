package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestNew(t *testing.T) {
	buf := New(10, 8)
	if buf.Width() != 10 || buf.Height() != 8 {
		t.Errorf("dimensions: got %dx%d, want 10x8", buf.Width(), buf.Height())
	}
	if len(buf.Img.Pix) != 10*8*4 {
		t.Errorf("pix length: got %d, want %d", len(buf.Img.Pix), 10*8*4)
	}

	// New buffers start fully transparent.
	if a := buf.Img.NRGBAAt(5, 5).A; a != 0 {
		t.Errorf("alpha at (5,5): got %d, want 0", a)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(2, 2, color.Gray{Y: 200})

	buf := FromImage(src)
	if buf.Width() != 4 || buf.Height() != 4 {
		t.Fatalf("dimensions: got %dx%d, want 4x4", buf.Width(), buf.Height())
	}
	got := buf.Img.NRGBAAt(2, 2)
	if got.R != 200 || got.A != 255 {
		t.Errorf("pixel (2,2): got %+v, want gray 200 opaque", got)
	}
}

func TestFill(t *testing.T) {
	buf := New(5, 5)
	buf.Fill(color.NRGBA{R: 255, A: 255})

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got := buf.Img.NRGBAAt(x, y); got != (color.NRGBA{R: 255, A: 255}) {
				t.Fatalf("pixel (%d,%d): got %+v, want opaque red", x, y, got)
			}
		}
	}
}

func TestClone(t *testing.T) {
	buf := New(3, 3)
	buf.AlphaBlending = true
	buf.Fill(color.NRGBA{G: 128, A: 255})

	dup := buf.Clone()
	if !dup.AlphaBlending {
		t.Error("Clone dropped AlphaBlending flag")
	}

	dup.Img.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	if got := buf.Img.NRGBAAt(0, 0); got.R == 1 {
		t.Error("Clone shares pixel storage with original")
	}
}

func TestAlpha7Conversion(t *testing.T) {
	tests := []struct {
		name string
		a8   uint8
		a7   uint8
	}{
		{"opaque", 255, 0},
		{"transparent", 0, 127},
		{"half", 127, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlphaTo7(tt.a8); got != tt.a7 {
				t.Errorf("AlphaTo7(%d): got %d, want %d", tt.a8, got, tt.a7)
			}
		})
	}

	if got := AlphaFrom7(127); got != 0 {
		t.Errorf("AlphaFrom7(127): got %d, want 0", got)
	}
	if got := AlphaFrom7(0); got != 255 {
		t.Errorf("AlphaFrom7(0): got %d, want 255", got)
	}
	if got := AlphaFrom7(64); got != 127 {
		t.Errorf("AlphaFrom7(64): got %d, want 127", got)
	}
}
