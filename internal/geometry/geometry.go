// Package geometry computes the source and destination rectangles for the
// sizing operations. Everything here is a pure function over integer
// dimensions; no pixel data is touched.
//
// # Coordinate System
//
// All coordinates are 0-based with origin at the top-left corner, X
// increasing rightward and Y downward. A Rect's (X, Y) is its inclusive
// top-left corner; W and H count pixels.
package geometry

import "math"

// Rect is an axis-aligned rectangle in either source or destination space.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Mode identifies how a resize plan is to be executed.
type Mode int

const (
	// Identity means the target equals the current size: no work.
	Identity Mode = iota

	// CenterCrop means one dimension shrinks with the other unchanged:
	// crop at a centered offset, no resampling.
	CenterCrop

	// PadCopy means one dimension grows with the other unchanged: copy the
	// source at a centered offset into a larger canvas, no resampling.
	PadCopy

	// Resample means a scaled copy from Src onto Dst.
	Resample
)

// Plan describes one resize operation: copy (or resample) the Src region
// of the source buffer onto the Dst region of a dstW×dstH canvas.
type Plan struct {
	Mode Mode
	Src  Rect
	Dst  Rect
}

// NormalizeCrop orders the corner coordinates of a crop region so that
// (x1,y1) is the top-left corner. Reversed arguments describe the same
// region. The result is not clamped to any buffer; callers clamp before
// use.
func NormalizeCrop(x1, y1, x2, y2 int) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// ClampRect restricts r to the w×h area starting at the origin.
func ClampRect(r Rect, w, h int) Rect {
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > w {
		r.W = w - r.X
	}
	if r.Y+r.H > h {
		r.H = h - r.Y
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// CenterOffset returns the offset that centers a target-sized span inside
// a larger one.
func CenterOffset(larger, target int) int {
	return int(math.Round(float64(larger-target) / 2))
}

// PlanResize decides how a srcW×srcH image becomes dstW×dstH.
//
// crop selects "cover" behavior: the target is filled completely and
// overflow is cropped away. Without crop the behavior is "contain": the
// scaled image fits inside the target and the remainder is padded.
// proportional preserves the source aspect ratio; otherwise the source is
// stretched onto the full target non-uniformly.
//
// Two single-axis cases bypass resampling entirely: shrinking exactly one
// dimension with crop set is a centered crop, and growing exactly one
// dimension without crop is a centered copy onto a larger canvas.
func PlanResize(srcW, srcH, dstW, dstH int, crop, proportional bool) Plan {
	full := func(w, h int) Rect { return Rect{W: w, H: h} }

	if dstW == srcW && dstH == srcH {
		return Plan{Mode: Identity, Src: full(srcW, srcH), Dst: full(dstW, dstH)}
	}

	if crop && srcW > dstW && srcH == dstH {
		return Plan{
			Mode: CenterCrop,
			Src:  Rect{X: CenterOffset(srcW, dstW), W: dstW, H: dstH},
			Dst:  full(dstW, dstH),
		}
	}
	if crop && srcH > dstH && srcW == dstW {
		return Plan{
			Mode: CenterCrop,
			Src:  Rect{Y: CenterOffset(srcH, dstH), W: dstW, H: dstH},
			Dst:  full(dstW, dstH),
		}
	}

	if !crop && dstW > srcW && dstH == srcH {
		return Plan{
			Mode: PadCopy,
			Src:  full(srcW, srcH),
			Dst:  Rect{X: CenterOffset(dstW, srcW), W: srcW, H: srcH},
		}
	}
	if !crop && dstH > srcH && dstW == srcW {
		return Plan{
			Mode: PadCopy,
			Src:  full(srcW, srcH),
			Dst:  Rect{Y: CenterOffset(dstH, srcH), W: srcW, H: srcH},
		}
	}

	src := full(srcW, srcH)
	dst := full(dstW, dstH)

	if proportional {
		oldRatio := roundRatio(srcW, srcH)
		newRatio := roundRatio(dstW, dstH)
		switch {
		case oldRatio > newRatio:
			// Wide source, narrower target.
			if crop {
				w := int(math.Round(float64(srcH) * newRatio))
				src = Rect{X: CenterOffset(srcW, w), W: w, H: srcH}
			} else {
				h := int(math.Round(float64(dstW) / oldRatio))
				dst = Rect{Y: CenterOffset(dstH, h), W: dstW, H: h}
			}
		case oldRatio < newRatio:
			// Tall source, wider target.
			if crop {
				h := int(math.Round(float64(srcW) / newRatio))
				src = Rect{Y: CenterOffset(srcH, h), W: srcW, H: h}
			} else {
				w := int(math.Round(float64(dstH) * oldRatio))
				dst = Rect{X: CenterOffset(dstW, w), W: w, H: dstH}
			}
		}
	}

	return Plan{Mode: Resample, Src: src, Dst: dst}
}

// roundRatio computes w/h rounded to two decimal places. Ratios that agree
// at that precision are treated as equal, so mild rounding noise does not
// trigger cropping or letterboxing.
func roundRatio(w, h int) float64 {
	return math.Round(float64(w)/float64(h)*100) / 100
}
