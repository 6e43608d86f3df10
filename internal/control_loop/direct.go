package control_loop

import (
	"github.com/bot-go-brr/brain/internal/maths"
)

const DefaultDampingFactor = 0.16

// DampedControlLoop gracefully approaches the target by interpolating from the
// previously applied value. Increases in magnitude are damped, decreases are
// applied immediately so letting go of the sticks always stops the robot.
type DampedControlLoop struct {
	// interpolation factor (0..1] applied per cycle
	factor float64
	// limits the maximum allowed change per cycle, 0 means unlimited
	maxChangePerCycle float64
}

// NewDampedControlLoop creates a DampedControlLoop using the given interpolation
// factor. maxChangePerCycle can be used to additionally cap the change per cycle.
func NewDampedControlLoop(factor float64, maxChangePerCycle float64) *DampedControlLoop {
	return &DampedControlLoop{
		factor:            maths.Coerce(factor, 0, 1),
		maxChangePerCycle: maxChangePerCycle,
	}
}

// Loop returns the next value given the desired target and the previously applied value
func (l *DampedControlLoop) Loop(target float64, measured float64) float64 {
	lerp := maths.Lerp(measured, target, l.factor)

	// never exceed the magnitude the caller asked for
	magnitude := maths.Abs(target)
	if abs := maths.Abs(lerp); abs < magnitude {
		magnitude = abs
	}

	if l.maxChangePerCycle > 0 && magnitude > maths.Abs(measured)+l.maxChangePerCycle {
		magnitude = maths.Abs(measured) + l.maxChangePerCycle
	}

	if target == 0 {
		return 0
	}
	return magnitude * maths.Signum(target)
}
