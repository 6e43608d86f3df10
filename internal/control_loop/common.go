package control_loop

type ControlLoop interface {
	// Loop advances the control loop
	Loop(target float64, measured float64) float64
}

// AxisLoop binds a PID configuration, its running state and an error space
// into a ControlLoop ticking at a fixed period.
type AxisLoop struct {
	Consts PidConsts
	State  PidState
	Diff   DiffFunc
	// tick length in seconds
	Dt float64

	lastTarget *float64
}

// NewRotationLoop creates an AxisLoop correcting a heading in degrees
func NewRotationLoop(consts PidConsts, dt float64) *AxisLoop {
	return &AxisLoop{Consts: consts, Diff: AngleDiff, Dt: dt}
}

// NewLinearLoop creates an AxisLoop correcting a linear position
func NewLinearLoop(consts PidConsts, dt float64) *AxisLoop {
	return &AxisLoop{Consts: consts, Diff: LinearDiff, Dt: dt}
}

func (l *AxisLoop) Loop(target float64, measured float64) float64 {
	return UpdatePid(measured, target, l.Dt, &l.State, l.Consts, l.Diff)
}

// Retarget starts a new maneuver if the target differs from the previous one,
// so stale history from an unrelated setpoint does not leak into the next.
// Returns true if the state was reset.
func (l *AxisLoop) Retarget(target float64, measured float64) bool {
	if l.lastTarget != nil && *l.lastTarget == target {
		return false
	}
	l.lastTarget = &target
	l.Seed(measured)
	return true
}

// Reset clears the running state and forgets the last target
func (l *AxisLoop) Reset() {
	l.State.Reset()
	l.lastTarget = nil
}

// Seed clears the running state and uses measured as the derivative baseline,
// so the first tick of a maneuver does not see a velocity spike.
func (l *AxisLoop) Seed(measured float64) {
	l.State.Reset()
	l.State.PrevMeasurement = measured
}
