package control_loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDamped_Accelerate(t *testing.T) {
	// GIVEN
	loop := NewDampedControlLoop(DefaultDampingFactor, 0)

	// WHEN
	newTarget := loop.Loop(12000, 0)

	// THEN
	assert.InDelta(t, 1920.0, newTarget, 1e-9)

	// WHEN
	newTarget = loop.Loop(12000, newTarget)

	// THEN
	assert.InDelta(t, 1920.0+(12000-1920)*0.16, newTarget, 1e-9)
}

func TestDamped_StopIsImmediate(t *testing.T) {
	loop := NewDampedControlLoop(DefaultDampingFactor, 0)
	assert.Equal(t, 0.0, loop.Loop(0, 5000))
}

func TestDamped_DecelerateIsImmediate(t *testing.T) {
	loop := NewDampedControlLoop(DefaultDampingFactor, 0)
	assert.Equal(t, 1000.0, loop.Loop(1000, 12000))
}

func TestDamped_Reverse(t *testing.T) {
	// GIVEN
	loop := NewDampedControlLoop(DefaultDampingFactor, 0)

	// WHEN
	newTarget := loop.Loop(-12000, 5000)

	// THEN
	// takes the direction of the target with the damped magnitude
	assert.InDelta(t, -2280.0, newTarget, 1e-9)
}

func TestDamped_MaxChange(t *testing.T) {
	// GIVEN
	loop := NewDampedControlLoop(1, 100)

	// WHEN
	newTarget := loop.Loop(12000, 0)

	// THEN
	assert.Equal(t, 100.0, newTarget)

	// WHEN
	newTarget = loop.Loop(12000, newTarget)

	// THEN
	assert.Equal(t, 200.0, newTarget)
}
