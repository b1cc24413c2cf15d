package relay

import (
	"context"
	"testing"
	"time"

	"github.com/frudas24/stuartlink/internal/drive"
	"github.com/frudas24/stuartlink/internal/geometry"
	"github.com/frudas24/stuartlink/internal/robot"
)

// TestValues_FreshWheels verifies a recent command reads back unchanged.
func TestValues_FreshWheels(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewStore(time.Second)
	s.SetNowFunc(func() time.Time { return now })

	s.SetWheels(drive.Wheels{Left: 0.3, Right: 0.2})
	now = now.Add(500 * time.Millisecond)

	w, coffee := s.Values()
	if w.Left != 0.3 || w.Right != 0.2 {
		t.Fatalf("expected fresh wheels, got %#v", w)
	}
	if coffee {
		t.Fatalf("expected no coffee flag")
	}
}

// TestValues_StaleWheelsReadZero verifies the staleness window stops the
// robot when the operator goes quiet.
func TestValues_StaleWheelsReadZero(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewStore(time.Second)
	s.SetNowFunc(func() time.Time { return now })

	s.SetWheels(drive.Wheels{Left: 0.5, Right: 0.5})
	now = now.Add(1500 * time.Millisecond)

	w, _ := s.Values()
	if w.Left != 0 || w.Right != 0 {
		t.Fatalf("expected stale wheels to read zero, got %#v", w)
	}
}

// TestValues_NeverUpdatedReadsZero verifies the initial poll is a stop.
func TestValues_NeverUpdatedReadsZero(t *testing.T) {
	s := NewStore(time.Second)
	w, coffee := s.Values()
	if w.Left != 0 || w.Right != 0 || coffee {
		t.Fatalf("expected zero initial state, got %#v coffee=%v", w, coffee)
	}
}

// TestCoffeeFlag_ClearsOnRead verifies a brew triggers exactly once.
func TestCoffeeFlag_ClearsOnRead(t *testing.T) {
	s := NewStore(time.Second)
	s.RequestCoffee()

	if _, coffee := s.Values(); !coffee {
		t.Fatalf("expected coffee flag on first poll")
	}
	if _, coffee := s.Values(); coffee {
		t.Fatalf("expected coffee flag cleared on second poll")
	}
}

// TestEndpoint_MoveStoresWheelValues verifies the endpoint adapter maps and
// stores polar commands.
func TestEndpoint_MoveStoresWheelValues(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewStore(time.Second)
	s.SetNowFunc(func() time.Time { return now })
	ep := NewEndpoint(s, drive.Params{MaxDistance: 200, MaxSpeed: 0.5})

	if err := ep.Move(context.Background(), geometry.Polar{Angle: -90, Distance: 200}); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	w, _ := s.Values()
	if w.Left != 0.5 || w.Right != 0.5 {
		t.Fatalf("expected full forward, got %#v", w)
	}
}

// TestEndpoint_Actions verifies the supported and rejected discrete actions.
func TestEndpoint_Actions(t *testing.T) {
	s := NewStore(time.Second)
	ep := NewEndpoint(s, drive.Params{MaxDistance: 200, MaxSpeed: 0.5})

	if err := ep.Action(context.Background(), robot.ActionMakeCoffee, ""); err != nil {
		t.Fatalf("make_coffee failed: %v", err)
	}
	if _, coffee := s.Values(); !coffee {
		t.Fatalf("expected coffee flag set")
	}

	if err := ep.Action(context.Background(), robot.ActionSayPhrase, "3"); err == nil {
		t.Fatalf("expected say_phrase to be rejected in relay mode")
	}
}
