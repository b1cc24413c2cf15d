// Package drive converts polar commands into differential wheel velocities.
package drive

import (
	"math"

	"github.com/frudas24/stuartlink/internal/geometry"
)

// Default parameters matching the deployed robot: a 200px joystick radius
// mapped onto a 0.5 turns/s wheel velocity bound.
const (
	DefaultMaxDistance = 200
	DefaultMaxSpeed    = 0.5
)

// turnDamping divides the lateral component so full-lock turns stay gentle.
const turnDamping = 3

// Params scales the polar command onto the robot's wheel velocity range.
type Params struct {
	MaxDistance float64
	MaxSpeed    float64
}

// Wheels is one differential drive command, in the robot's polling format.
type Wheels struct {
	Left  float64 `json:"left_vel"`
	Right float64 `json:"right_vel"`
}

// FromPolar maps a polar command onto wheel velocities. Pointer angles count
// document-down y as positive, so forward is -90; the drive math runs in the
// conventional up-positive frame. Backward headings swap the wheel sides, and
// the straight-backward dead zone stops the robot outright.
func FromPolar(cmd geometry.Polar, p Params) Wheels {
	if p.MaxDistance <= 0 || p.MaxSpeed <= 0 {
		return Wheels{}
	}

	// Up-positive frame, normalized to [0, 360).
	angle := -cmd.Angle
	if angle < 0 {
		angle += 360
	}

	speed := mapRange(cmd.Distance, 0, p.MaxDistance, 0, p.MaxSpeed)
	rad := angle * math.Pi / 180
	x := speed * math.Cos(rad) / turnDamping
	y := speed * math.Sin(rad)

	left := clamp(y+x, p.MaxSpeed)
	right := clamp(y-x, p.MaxSpeed)

	if angle > 180 {
		left, right = right, left
	}
	if angle > 225 && angle < 315 {
		left, right = 0, 0
	}

	return Wheels{Left: round2(left), Right: round2(right)}
}

// mapRange linearly maps value from one range onto another.
func mapRange(value, fromLow, fromHigh, toLow, toHigh float64) float64 {
	normalized := (value - fromLow) / (fromHigh - fromLow)
	return normalized*(toHigh-toLow) + toLow
}

// clamp bounds value to [-limit, limit].
func clamp(value, limit float64) float64 {
	if value > limit {
		return limit
	}
	if value < -limit {
		return -limit
	}
	return value
}

// round2 rounds to two decimals, the precision the robot expects.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
