package drive

import (
	"github.com/bot-go-brr/brain/internal/maths"
)

const (
	MaxVoltage = 12000
	MinVoltage = -MaxVoltage
)

// Arcade mixes a turn and a forward command (-12000..12000) into left and right
// drive voltages. Saturation is a clamp, not an error.
func Arcade(turn, forward int) (left, right int) {
	left = maths.Coerce(forward+turn, MinVoltage, MaxVoltage)
	right = maths.Coerce(forward-turn, MinVoltage, MaxVoltage)
	return left, right
}

// ClampVoltage coerces v into the valid drive voltage range
func ClampVoltage(v int) int {
	return maths.Coerce(v, MinVoltage, MaxVoltage)
}
