// Package gesture owns the drag lifecycle for a single control surface.
package gesture

import "github.com/frudas24/stuartlink/internal/geometry"

// State enumerates the gesture lifecycle.
type State int

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Dragging means a gesture started and has not been released.
	Dragging
)

// Rect is the surface bounds the client measured at gesture start.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Sample is one emitted command plus the marker position for the UI.
type Sample struct {
	Command geometry.Polar
	MarkerX float64
	MarkerY float64
}

// Machine tracks drag state for one control surface. Every surface needs its
// own Machine; there is no shared package state, so surfaces cannot corrupt
// each other.
type Machine struct {
	state  State
	origin geometry.Origin
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Start begins a gesture, measuring the origin from the bounds the surface
// has right now. Bounds must be re-reported on every gesture since layout can
// shift between gestures; the origin is never cached across them.
func (m *Machine) Start(bounds Rect) {
	m.origin = OriginFromRect(bounds)
	m.state = Dragging
}

// Move resolves one pointer sample into an emitted command. A move while Idle
// is a stray event: no emission, no state change.
func (m *Machine) Move(s geometry.PointerSample) (Sample, bool) {
	if m.state != Dragging {
		return Sample{}, false
	}
	mx, my := geometry.MarkerPoint(s, m.origin)
	return Sample{
		Command: geometry.Resolve(s, m.origin),
		MarkerX: mx,
		MarkerY: my,
	}, true
}

// End releases the gesture and returns the terminal zero command with the
// marker back at center. End, leave, and cancel are the same operation: the
// terminal command is emitted exactly once per gesture, even when no move was
// seen, and never when already Idle.
func (m *Machine) End() (Sample, bool) {
	if m.state != Dragging {
		return Sample{}, false
	}
	m.state = Idle
	return Sample{}, true
}

// OriginFromRect measures a surface's center and radius bound from its
// on-screen bounds.
func OriginFromRect(r Rect) geometry.Origin {
	side := r.W
	if r.H < side {
		side = r.H
	}
	return geometry.Origin{
		CenterX:   r.X + r.W/2,
		CenterY:   r.Y + r.H/2,
		MaxRadius: side / 2,
	}
}
