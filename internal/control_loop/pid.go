package control_loop

import (
	"math"

	"github.com/bot-go-brr/brain/internal/maths"
)

// PidConsts configures a predictive PI corrector.
// Saturation must be positive.
type PidConsts struct {
	// Proportional gain
	Kp float64 `json:"kp"`
	// Integral gain
	Ki float64 `json:"ki"`
	// How far ahead (in seconds) the measurement is extrapolated before computing the error
	PredictionWindow float64 `json:"predictionWindow"`
	// Output limit, applied symmetrically
	Saturation float64 `json:"saturation"`
}

// PidState is the mutable history of a single corrective maneuver.
// Reset it whenever the setpoint changes to an unrelated target.
type PidState struct {
	Integral         float64
	PrevMeasurement  float64
	PrevVelocity     float64
	PrevAcceleration float64
}

func (s *PidState) Reset() {
	*s = PidState{}
}

// DiffFunc returns the signed error between target and measurement
type DiffFunc func(target, measurement float64) float64

// LinearDiff is plain subtraction
func LinearDiff(target, measurement float64) float64 {
	return target - measurement
}

// AngleDiff returns the shortest signed rotation (degrees) from measurement to target
func AngleDiff(target, measurement float64) float64 {
	return maths.WrapDegrees(target - measurement)
}

// UpdatePid advances the corrector by one tick of length dt (seconds) and returns
// a correction within [-Saturation, Saturation].
func UpdatePid(
	measurement float64,
	target float64,
	dt float64,
	state *PidState,
	consts PidConsts,
	diff DiffFunc,
) float64 {
	assertPositiveSaturation(consts)

	// finite differences of the measurement
	velocity := diff(measurement, state.PrevMeasurement) / dt
	acceleration := (velocity - state.PrevVelocity) / dt
	jerk := (acceleration - state.PrevAcceleration) / dt

	state.PrevMeasurement = measurement
	state.PrevVelocity = velocity
	state.PrevAcceleration = acceleration

	// extrapolate the measurement over the prediction window
	w := consts.PredictionWindow
	predicted := measurement + velocity*w + acceleration*w*w/2 + jerk*w*w*w/6

	err := diff(target, predicted)
	if math.IsNaN(err) {
		// non-finite sensor history, contribute nothing this tick
		err = 0
	}

	proportional := maths.Coerce(consts.Kp*err, -consts.Saturation, consts.Saturation)

	// dynamic anti-windup: only grow the integral while there is headroom left,
	// but always allow it to unwind
	headroom := consts.Saturation - maths.Abs(proportional)
	if maths.Abs(state.Integral) < headroom || maths.Signum(state.Integral) != maths.Signum(err) {
		state.Integral += consts.Ki * dt * err
	}
	if math.IsNaN(state.Integral) {
		state.Integral = 0
	}

	return maths.Coerce(proportional+state.Integral, -consts.Saturation, consts.Saturation)
}
