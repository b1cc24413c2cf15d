package drive

import (
	"testing"

	"github.com/frudas24/stuartlink/internal/geometry"
)

var params = Params{MaxDistance: DefaultMaxDistance, MaxSpeed: DefaultMaxSpeed}

// TestFromPolar_FullForward verifies straight-up drives both wheels at the
// speed bound.
func TestFromPolar_FullForward(t *testing.T) {
	w := FromPolar(geometry.Polar{Angle: -90, Distance: 200}, params)
	if w.Left != 0.5 || w.Right != 0.5 {
		t.Fatalf("expected {0.5 0.5}, got %#v", w)
	}
}

// TestFromPolar_HalfForward verifies distance scales the speed linearly.
func TestFromPolar_HalfForward(t *testing.T) {
	w := FromPolar(geometry.Polar{Angle: -90, Distance: 100}, params)
	if w.Left != 0.25 || w.Right != 0.25 {
		t.Fatalf("expected {0.25 0.25}, got %#v", w)
	}
}

// TestFromPolar_SpinRight verifies a pure-right deflection counter-rotates
// the wheels with the damped lateral component.
func TestFromPolar_SpinRight(t *testing.T) {
	w := FromPolar(geometry.Polar{Angle: 0, Distance: 200}, params)
	if w.Left != 0.17 || w.Right != -0.17 {
		t.Fatalf("expected {0.17 -0.17}, got %#v", w)
	}
}

// TestFromPolar_BackwardDeadZone verifies straight-backward stops the robot.
func TestFromPolar_BackwardDeadZone(t *testing.T) {
	for _, angle := range []float64{90, 60, 120} {
		w := FromPolar(geometry.Polar{Angle: angle, Distance: 200}, params)
		if w.Left != 0 || w.Right != 0 {
			t.Fatalf("angle %v: expected stop, got %#v", angle, w)
		}
	}
}

// TestFromPolar_BackwardSwapsSides verifies reverse headings swap wheels so
// the robot steers naturally while backing up.
func TestFromPolar_BackwardSwapsSides(t *testing.T) {
	w := FromPolar(geometry.Polar{Angle: 135, Distance: 200}, params)
	if w.Left != -0.24 || w.Right != -0.47 {
		t.Fatalf("expected {-0.24 -0.47}, got %#v", w)
	}
}

// TestFromPolar_ZeroCommand verifies the terminal gesture command stops the
// wheels.
func TestFromPolar_ZeroCommand(t *testing.T) {
	w := FromPolar(geometry.Polar{}, params)
	if w.Left != 0 || w.Right != 0 {
		t.Fatalf("expected stop, got %#v", w)
	}
}

// TestFromPolar_InvalidParams verifies degenerate parameters yield a stop.
func TestFromPolar_InvalidParams(t *testing.T) {
	w := FromPolar(geometry.Polar{Angle: -90, Distance: 200}, Params{})
	if w.Left != 0 || w.Right != 0 {
		t.Fatalf("expected stop, got %#v", w)
	}
}
