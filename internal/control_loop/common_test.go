package control_loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisLoop_RotationTakesShortestPath(t *testing.T) {
	// GIVEN
	loop := NewRotationLoop(PidConsts{Kp: 1, Saturation: 100}, 0.02)
	loop.Seed(-170)

	// WHEN
	output := loop.Loop(170, -170)

	// THEN
	assert.InDelta(t, -20.0, output, 1e-9)
}

func TestAxisLoop_Linear(t *testing.T) {
	// GIVEN
	loop := NewLinearLoop(PidConsts{Kp: 3, Saturation: 12000}, 0.02)
	loop.Seed(100)

	// WHEN
	output := loop.Loop(300, 100)

	// THEN
	assert.InDelta(t, 600.0, output, 1e-9)
}

func TestAxisLoop_Retarget(t *testing.T) {
	// GIVEN
	loop := NewLinearLoop(PidConsts{Ki: 1, Saturation: 100}, 0.1)

	// WHEN
	changed := loop.Retarget(10, 0)
	loop.Loop(10, 0)
	loop.Loop(10, 0)

	// THEN
	assert.True(t, changed)
	assert.InDelta(t, 2.0, loop.State.Integral, 1e-9)

	// WHEN
	changed = loop.Retarget(10, 0)

	// THEN
	assert.False(t, changed)
	assert.InDelta(t, 2.0, loop.State.Integral, 1e-9)

	// WHEN
	changed = loop.Retarget(20, 7)

	// THEN
	assert.True(t, changed)
	assert.Equal(t, 0.0, loop.State.Integral)
	assert.Equal(t, 7.0, loop.State.PrevMeasurement)
}

func TestAxisLoop_ResetForgetsTarget(t *testing.T) {
	// GIVEN
	loop := NewLinearLoop(PidConsts{Kp: 1, Saturation: 100}, 0.1)
	loop.Retarget(10, 0)

	// WHEN
	loop.Reset()

	// THEN
	assert.True(t, loop.Retarget(10, 0))
}
