package relay

import (
	"context"
	"fmt"

	"github.com/frudas24/stuartlink/internal/drive"
	"github.com/frudas24/stuartlink/internal/geometry"
	"github.com/frudas24/stuartlink/internal/robot"
)

// Endpoint adapts the store to the dispatcher's endpoint interface so relay
// deployments dispatch through the exact same path as direct ones.
type Endpoint struct {
	store  *Store
	params drive.Params
}

// NewEndpoint wraps a store with the drive mapping parameters.
func NewEndpoint(store *Store, params drive.Params) *Endpoint {
	return &Endpoint{store: store, params: params}
}

// Move converts the polar command to wheel velocities and stores them.
func (e *Endpoint) Move(_ context.Context, cmd geometry.Polar) error {
	e.store.SetWheels(drive.FromPolar(cmd, e.params))
	return nil
}

// Action handles the discrete actions a polled robot understands. Phrases
// need the robot's own HTTP server, so relay mode rejects them.
func (e *Endpoint) Action(_ context.Context, name, _ string) error {
	switch name {
	case robot.ActionMakeCoffee:
		e.store.RequestCoffee()
		return nil
	default:
		return fmt.Errorf("relay: action %q not supported", name)
	}
}
