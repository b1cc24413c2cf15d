// Package geometry converts pointer samples into polar drive commands.
package geometry

import "math"

// PointerSample is one pointer or touch reading in client coordinates.
type PointerSample struct {
	X     float64
	Y     float64
	Touch bool
}

// Origin is the measured center and radius bound of a control surface.
type Origin struct {
	CenterX   float64
	CenterY   float64
	MaxRadius float64
}

// Polar is a normalized drive command: heading in degrees and magnitude.
type Polar struct {
	Angle    float64 `json:"angle"`
	Distance float64 `json:"distance"`
}

// Resolve converts a pointer sample into a polar command relative to origin.
// Angle is atan2 in degrees within (-180, 180], with document-down y counted
// positive; the remote endpoint reads it as a heading, so the convention is
// fixed. Distance saturates at origin.MaxRadius. A degenerate origin (zero
// radius) resolves to the zero command.
func Resolve(s PointerSample, o Origin) Polar {
	if o.MaxRadius <= 0 {
		return Polar{}
	}
	dx := s.X - o.CenterX
	dy := s.Y - o.CenterY
	dist := math.Hypot(dx, dy)
	if dist > o.MaxRadius {
		dist = o.MaxRadius
	}
	return Polar{
		Angle:    math.Atan2(dy, dx) * 180 / math.Pi,
		Distance: dist,
	}
}

// MarkerPoint returns the center-relative point where the UI should draw the
// joystick marker for a sample, clamped to the surface radius.
func MarkerPoint(s PointerSample, o Origin) (float64, float64) {
	if o.MaxRadius <= 0 {
		return 0, 0
	}
	dx := s.X - o.CenterX
	dy := s.Y - o.CenterY
	dist := math.Hypot(dx, dy)
	if dist <= o.MaxRadius {
		return dx, dy
	}
	scale := o.MaxRadius / dist
	return dx * scale, dy * scale
}
