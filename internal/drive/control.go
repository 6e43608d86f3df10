package drive

import (
	"math"

	"github.com/bot-go-brr/brain/internal/control_loop"
	"github.com/bot-go-brr/brain/internal/joystick"
	"github.com/bot-go-brr/brain/internal/maths"
)

// Sticks holds raw analog joystick readings (-127..127)
type Sticks struct {
	LeftX  int
	LeftY  int
	RightX int
	RightY int
}

// XYToAngle finds the heading a joystick points at, relative to the top of the joystick.
// The result is within [-179, 179].
func XYToAngle(x, y float64) float64 {
	var angle float64
	if y < 0 {
		angle = maths.Atan(maths.Abs(y)/(x+0.0001*maths.Signum(x))) + 90*maths.Signum(x)
	} else {
		angle = maths.Atan(x / (y + 0.0001*maths.Signum(y)))
	}
	return maths.Coerce(angle, -179, 179)
}

// Damper smooths sudden increases of the drive voltages between ticks
type Damper struct {
	loop      *control_loop.DampedControlLoop
	prevLeft  int
	prevRight int
}

func NewDamper(factor float64, maxChangePerTick float64) *Damper {
	return &Damper{loop: control_loop.NewDampedControlLoop(factor, maxChangePerTick)}
}

// Damp returns the voltages to apply this tick and remembers them for the next
func (d *Damper) Damp(left, right int) (int, int) {
	d.prevLeft = int(math.Round(d.loop.Loop(float64(left), float64(d.prevLeft))))
	d.prevRight = int(math.Round(d.loop.Loop(float64(right), float64(d.prevRight))))
	return d.prevLeft, d.prevRight
}

// Previous returns the last applied voltages
func (d *Damper) Previous() (int, int) {
	return d.prevLeft, d.prevRight
}

// UserDrive turns driver input into drive voltages. The left stick drives
// arcade style through the response curve, deflecting the right stick holds
// the heading it points at using the rotation loop.
type UserDrive struct {
	Shaper         joystick.Shaper
	TurnMultiplier float64

	rot           *control_loop.AxisLoop
	exactRotation bool
}

func NewUserDrive(shaper joystick.Shaper, turnMultiplier float64, rot *control_loop.AxisLoop) *UserDrive {
	return &UserDrive{
		Shaper:         shaper,
		TurnMultiplier: turnMultiplier,
		rot:            rot,
	}
}

// Control computes the left and right voltages and the forward thrust for one tick
func (u *UserDrive) Control(sticks Sticks, yaw float64) (left, right, thrust int) {
	turn := u.Shaper.ShapeRaw(sticks.LeftX) * u.TurnMultiplier
	forward := u.Shaper.ShapeRaw(sticks.LeftY)

	if sticks.RightX != 0 || sticks.RightY != 0 {
		if !u.exactRotation {
			u.rot.Seed(yaw)
			u.exactRotation = true
		}
		target := XYToAngle(joystick.Normalize(sticks.RightX), joystick.Normalize(sticks.RightY))
		turn = u.rot.Loop(target, yaw)
	} else {
		u.exactRotation = false
	}

	thrust = int(math.Round(forward))
	left, right = Arcade(int(math.Round(turn)), thrust)
	return left, right, thrust
}

// ExactRotation reports whether the right stick heading hold is active
func (u *UserDrive) ExactRotation() bool {
	return u.exactRotation
}

// Correct computes the drive voltages holding targetAngle while either driving
// with a fixed thrust or, if thrust is zero, correcting towards targetPosition.
// A changed target starts a new maneuver on the affected loop.
func Correct(
	rot *control_loop.AxisLoop,
	linear *control_loop.AxisLoop,
	targetAngle, yaw float64,
	targetPosition, position float64,
	thrust int,
) (left, right int) {
	rot.Retarget(targetAngle, yaw)
	turn := rot.Loop(targetAngle, yaw)

	forward := float64(thrust)
	if thrust == 0 {
		linear.Retarget(targetPosition, position)
		forward = linear.Loop(targetPosition, position)
	} else {
		linear.Reset()
	}

	return Arcade(int(math.Round(turn)), int(math.Round(forward)))
}

// PositionFrame expresses position targets relative to where the current
// hold started. A hold is a run of ticks without thrust; the position the
// robot had on its first tick is the anchor. Targets of ticks with thrust
// are unused and reported as 0.
type PositionFrame struct {
	anchor  float64
	holding bool
}

// Relative returns the target to record for a tick driven with thrust at position
func (f *PositionFrame) Relative(thrust int, position float64) float64 {
	if !f.hold(thrust, position) {
		return 0
	}
	return position - f.anchor
}

// Absolute returns the position a recorded target refers to
func (f *PositionFrame) Absolute(thrust int, target, position float64) float64 {
	if !f.hold(thrust, position) {
		return position
	}
	return f.anchor + target
}

func (f *PositionFrame) Reset() {
	*f = PositionFrame{}
}

func (f *PositionFrame) hold(thrust int, position float64) bool {
	if thrust != 0 {
		f.holding = false
		return false
	}
	if !f.holding {
		f.anchor = position
		f.holding = true
	}
	return true
}
