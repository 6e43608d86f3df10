// Package inst defines a single autonomous instruction and its fixed-width
// bit-packed wire format.
package inst

import (
	"errors"
	"fmt"

	"github.com/bot-go-brr/brain/internal/maths"
)

const (
	MinAngle = -180
	MaxAngle = 180

	MinPosition = -(1 << (positionBits - 1))
	MaxPosition = 1<<(positionBits-1) - 1

	MinThrust = -12000
	MaxThrust = 12000
)

var ErrOutOfRange = errors.New("instruction field out of range")

// Instruction is what the robot should be doing during one control tick.
// Instructions are compared by value.
type Instruction struct {
	// heading to hold, in degrees
	TargetAngle int16 `json:"targetAngle"`
	// position to reach, in mm from where the robot was on the first tick of
	// the current run of zero thrust ticks. Unused when Thrust is not zero.
	TargetPosition int16 `json:"targetPosition"`
	BeltActive     bool  `json:"beltActive"`
	// belt direction, ignored if the belt is not active
	BeltUp         bool  `json:"beltUp"`
	SolenoidActive bool  `json:"solenoidActive"`
	// forward drive voltage in mV
	Thrust int16 `json:"thrust"`
}

// Validate checks that every field is within its declared range
func (i Instruction) Validate() error {
	if i.TargetAngle < MinAngle || i.TargetAngle > MaxAngle {
		return fmt.Errorf("%w: target angle %d not in [%d, %d]", ErrOutOfRange, i.TargetAngle, MinAngle, MaxAngle)
	}
	if i.TargetPosition < MinPosition || i.TargetPosition > MaxPosition {
		return fmt.Errorf("%w: target position %d not in [%d, %d]", ErrOutOfRange, i.TargetPosition, MinPosition, MaxPosition)
	}
	if i.Thrust < MinThrust || i.Thrust > MaxThrust {
		return fmt.Errorf("%w: thrust %d not in [%d, %d]", ErrOutOfRange, i.Thrust, MinThrust, MaxThrust)
	}
	return nil
}

// Clamped returns a copy with every field coerced into its declared range
func (i Instruction) Clamped() Instruction {
	i.TargetAngle = maths.Coerce(i.TargetAngle, MinAngle, MaxAngle)
	i.TargetPosition = maths.Coerce(i.TargetPosition, MinPosition, MaxPosition)
	i.Thrust = maths.Coerce(i.Thrust, MinThrust, MaxThrust)
	if !i.BeltActive {
		i.BeltUp = false
	}
	return i
}

// BeltVoltage returns the belt motor voltage for the given belt speed
func (i Instruction) BeltVoltage(speed int) int {
	switch {
	case !i.BeltActive:
		return 0
	case i.BeltUp:
		return speed
	default:
		return -speed
	}
}

// BeltDirection returns 1 (up), -1 (down) or 0 (inactive)
func (i Instruction) BeltDirection() int {
	return i.BeltVoltage(1)
}

func (i Instruction) String() string {
	return fmt.Sprintf("angle=%d position=%d belt=%+d solenoid=%t thrust=%d",
		i.TargetAngle, i.TargetPosition, i.BeltDirection(), i.SolenoidActive, i.Thrust)
}

// FromFloats builds a clamped instruction from continuous measurements
func FromFloats(angle, position float64, beltDirection int, solenoid bool, thrust int) Instruction {
	return Instruction{
		TargetAngle:    int16(maths.Coerce(roundHalfAway(angle), MinAngle, MaxAngle)),
		TargetPosition: int16(maths.Coerce(roundHalfAway(position), MinPosition, MaxPosition)),
		BeltActive:     beltDirection != 0,
		BeltUp:         beltDirection > 0,
		SolenoidActive: solenoid,
		Thrust:         int16(maths.Coerce(thrust, MinThrust, MaxThrust)),
	}
}

func roundHalfAway(x float64) int {
	if x < 0 {
		return int(x - 0.5)
	}
	return int(x + 0.5)
}
