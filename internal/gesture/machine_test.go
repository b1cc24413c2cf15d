package gesture

import (
	"testing"

	"github.com/frudas24/stuartlink/internal/geometry"
)

// surface is a 200x200 widget at (100,100): center (200,200), radius 100.
var surface = Rect{X: 100, Y: 100, W: 200, H: 200}

// TestMoveWhileIdle_Ignored verifies stray moves before a start emit nothing.
func TestMoveWhileIdle_Ignored(t *testing.T) {
	m := NewMachine()
	if _, ok := m.Move(geometry.PointerSample{X: 250, Y: 200}); ok {
		t.Fatalf("expected no emission while Idle")
	}
	if m.State() != Idle {
		t.Fatalf("expected state Idle, got %v", m.State())
	}
}

// TestDrag_EmitsMoveThenTerminal verifies the center-right-release flow.
func TestDrag_EmitsMoveThenTerminal(t *testing.T) {
	m := NewMachine()
	m.Start(surface)

	s, ok := m.Move(geometry.PointerSample{X: 250, Y: 200})
	if !ok {
		t.Fatalf("expected emission while Dragging")
	}
	if s.Command.Angle != 0 || s.Command.Distance != 50 {
		t.Fatalf("expected {0 50}, got %#v", s.Command)
	}
	if s.MarkerX != 50 || s.MarkerY != 0 {
		t.Fatalf("expected marker (50,0), got (%v,%v)", s.MarkerX, s.MarkerY)
	}

	s, ok = m.End()
	if !ok {
		t.Fatalf("expected terminal emission on release")
	}
	if s.Command != (geometry.Polar{}) || s.MarkerX != 0 || s.MarkerY != 0 {
		t.Fatalf("expected zero terminal sample, got %#v", s)
	}
	if m.State() != Idle {
		t.Fatalf("expected state Idle after release, got %v", m.State())
	}
}

// TestDrag_UpwardSaturates verifies the -90 degree, clamped-distance case.
func TestDrag_UpwardSaturates(t *testing.T) {
	m := NewMachine()
	m.Start(surface)

	s, ok := m.Move(geometry.PointerSample{X: 200, Y: 100})
	if !ok {
		t.Fatalf("expected emission")
	}
	if s.Command.Angle != -90 || s.Command.Distance != 100 {
		t.Fatalf("expected {-90 100}, got %#v", s.Command)
	}

	s, ok = m.Move(geometry.PointerSample{X: 200, Y: -500})
	if !ok {
		t.Fatalf("expected emission")
	}
	if s.Command.Distance != 100 {
		t.Fatalf("expected saturated distance 100, got %v", s.Command.Distance)
	}
}

// TestEnd_WithoutMove verifies the terminal command still fires when a
// gesture saw no move samples.
func TestEnd_WithoutMove(t *testing.T) {
	m := NewMachine()
	m.Start(surface)
	if _, ok := m.End(); !ok {
		t.Fatalf("expected terminal emission for moveless gesture")
	}
}

// TestEnd_ExactlyOncePerGesture verifies a duplicate release is a no-op.
func TestEnd_ExactlyOncePerGesture(t *testing.T) {
	m := NewMachine()
	m.Start(surface)
	if _, ok := m.End(); !ok {
		t.Fatalf("expected first release to emit")
	}
	if _, ok := m.End(); ok {
		t.Fatalf("expected duplicate release to emit nothing")
	}
}

// TestStart_RemeasuresOrigin verifies bounds are re-read on each gesture.
func TestStart_RemeasuresOrigin(t *testing.T) {
	m := NewMachine()
	m.Start(surface)
	if _, ok := m.End(); !ok {
		t.Fatalf("expected terminal emission")
	}

	// The widget moved before the second gesture.
	m.Start(Rect{X: 500, Y: 500, W: 100, H: 100})
	s, ok := m.Move(geometry.PointerSample{X: 600, Y: 550})
	if !ok {
		t.Fatalf("expected emission")
	}
	if s.Command.Angle != 0 || s.Command.Distance != 50 {
		t.Fatalf("expected {0 50} from re-measured origin, got %#v", s.Command)
	}
}

// TestMachines_AreIsolated verifies two surfaces never share drag state.
func TestMachines_AreIsolated(t *testing.T) {
	left := NewMachine()
	right := NewMachine()

	left.Start(surface)
	if _, ok := right.Move(geometry.PointerSample{X: 250, Y: 200}); ok {
		t.Fatalf("expected second machine to stay Idle")
	}
	if right.State() != Idle || left.State() != Dragging {
		t.Fatalf("unexpected states: left=%v right=%v", left.State(), right.State())
	}
}

// TestOriginFromRect_NonSquare verifies the radius uses the short side.
func TestOriginFromRect_NonSquare(t *testing.T) {
	o := OriginFromRect(Rect{X: 0, Y: 0, W: 300, H: 100})
	if o.CenterX != 150 || o.CenterY != 50 || o.MaxRadius != 50 {
		t.Fatalf("unexpected origin %#v", o)
	}
}
