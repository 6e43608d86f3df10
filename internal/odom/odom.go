// Package odom estimates the robot's travelled distance from two parallel
// tracking wheels with rotation sensors. All distances are in millimetres.
package odom

import (
	"math"

	"github.com/bot-go-brr/brain/internal/maths"
)

// DefaultWheelDiameter of the tracking wheels in mm
const DefaultWheelDiameter = 69.85

// State is the running odometry of one session
type State struct {
	PrevLeftAngle  float64 `json:"prevLeftAngle"`
	PrevRightAngle float64 `json:"prevRightAngle"`
	Position       float64 `json:"position"`
}

// NewState uses the current sensor readings as the baseline, so the first delta is zero
func NewState(leftAngle, rightAngle float64) State {
	return State{
		PrevLeftAngle:  leftAngle,
		PrevRightAngle: rightAngle,
	}
}

// LowestRotationDelta returns the signed rotation from prev to current (degrees)
// with the smallest magnitude, accounting for the sensor wrapping at 360.
// Ties favour the unadjusted difference, except that a half turn is always
// reported as +180 so the result stays within (-180, 180].
func LowestRotationDelta(prev, current float64) float64 {
	delta := current - prev
	adjusted := delta - 360*maths.Signum(delta)

	if maths.Abs(adjusted) < maths.Abs(delta) {
		return adjusted
	}
	if delta == -180 {
		return 180
	}
	return delta
}

// Tracker converts rail rotations into linear distance
type Tracker struct {
	WheelDiameter float64
}

func NewTracker(wheelDiameter float64) Tracker {
	if wheelDiameter <= 0 {
		wheelDiameter = DefaultWheelDiameter
	}
	return Tracker{WheelDiameter: wheelDiameter}
}

// Distance converts an angular delta (degrees) into mm travelled by the wheel
func (t Tracker) Distance(delta float64) float64 {
	return delta / 360 * math.Pi * t.WheelDiameter
}

// Update accounts for the rail rotations since the previous call.
// It has to be called every tick, moving or not.
func (t Tracker) Update(state *State, leftAngle, rightAngle float64) {
	leftDelta := LowestRotationDelta(state.PrevLeftAngle, leftAngle)
	rightDelta := LowestRotationDelta(state.PrevRightAngle, rightAngle)

	state.PrevLeftAngle = leftAngle
	state.PrevRightAngle = rightAngle

	state.Position += maths.Avg(t.Distance(leftDelta), t.Distance(rightDelta))
}
