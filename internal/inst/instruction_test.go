package inst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Instruction{TargetAngle: 180, TargetPosition: -256, Thrust: -12000}.Validate())
	assert.ErrorIs(t, Instruction{TargetAngle: -181}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, Instruction{TargetPosition: 256}.Validate(), ErrOutOfRange)
	assert.ErrorIs(t, Instruction{Thrust: 12001}.Validate(), ErrOutOfRange)
}

func TestClamped(t *testing.T) {
	// GIVEN
	i := Instruction{TargetAngle: 300, TargetPosition: -1000, Thrust: 16000, BeltUp: true}

	// WHEN
	clamped := i.Clamped()

	// THEN
	assert.Equal(t, Instruction{TargetAngle: 180, TargetPosition: -256, Thrust: 12000}, clamped)
	assert.NoError(t, clamped.Validate())
}

func TestEquality(t *testing.T) {
	a := Instruction{TargetAngle: 10, Thrust: 500}
	b := Instruction{TargetAngle: 10, Thrust: 500}
	c := Instruction{TargetAngle: 10, Thrust: 501}
	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestBeltVoltage(t *testing.T) {
	assert.Equal(t, 0, Instruction{BeltUp: true}.BeltVoltage(9000))
	assert.Equal(t, 9000, Instruction{BeltActive: true, BeltUp: true}.BeltVoltage(9000))
	assert.Equal(t, -9000, Instruction{BeltActive: true}.BeltVoltage(9000))
}

func TestFromFloats(t *testing.T) {
	// WHEN
	i := FromFloats(-44.6, 1234.2, -1, true, 20000)

	// THEN
	assert.Equal(t, Instruction{
		TargetAngle:    -45,
		TargetPosition: MaxPosition,
		BeltActive:     true,
		BeltUp:         false,
		SolenoidActive: true,
		Thrust:         MaxThrust,
	}, i)
}

func TestString(t *testing.T) {
	i := Instruction{TargetAngle: 90, TargetPosition: -5, BeltActive: true, BeltUp: true, Thrust: 100}
	assert.Equal(t, "angle=90 position=-5 belt=+1 solenoid=false thrust=100", i.String())
}
