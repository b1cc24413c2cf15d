// Package testutil provides fakes shared by control and app tests.
package testutil

import (
	"sync"

	"github.com/frudas24/stuartlink/internal/dispatch"
	"github.com/frudas24/stuartlink/internal/geometry"
)

// Dispatched records a single command handed to the sink.
type Dispatched struct {
	Kind     string
	Angle    float64
	Distance float64
	Name     string
	Value    string
}

// FakeSink records dispatched commands for assertions.
type FakeSink struct {
	mu    sync.Mutex
	Calls []Dispatched
}

// DispatchMove records a movement command.
func (f *FakeSink) DispatchMove(cmd geometry.Polar) *dispatch.Pending {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Dispatched{Kind: "move", Angle: cmd.Angle, Distance: cmd.Distance})
	return dispatch.Settled(nil)
}

// DispatchAction records a discrete command.
func (f *FakeSink) DispatchAction(name, value string) *dispatch.Pending {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Dispatched{Kind: "action", Name: name, Value: value})
	return dispatch.Settled(nil)
}

// Snapshot returns a copy of the recorded calls.
func (f *FakeSink) Snapshot() []Dispatched {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Dispatched, len(f.Calls))
	copy(out, f.Calls)
	return out
}
