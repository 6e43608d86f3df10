package hardware

import (
	"errors"
	"time"
)

var (
	ErrSensorRead    = errors.New("sensor read failed")
	ErrActuatorWrite = errors.New("actuator write failed")
)

type Buttons uint16

const (
	ButtonL1 Buttons = 1 << iota
	ButtonL2
	ButtonR1
	ButtonR2
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonX
	ButtonB
	ButtonY
	ButtonA
)

// ControllerState is one sample of the driver controller. Stick axes are raw
// values in [-127, 127].
type ControllerState struct {
	LeftX   int     `json:"leftX"`
	LeftY   int     `json:"leftY"`
	RightX  int     `json:"rightX"`
	RightY  int     `json:"rightY"`
	Buttons Buttons `json:"buttons"`
}

func (c ControllerState) Pressed(button Buttons) bool {
	return c.Buttons&button != 0
}

// Interface is the hardware consumed by the control loop
type Interface interface {
	// ReadRotation returns the absolute angle of a rotation sensor in degrees [0, 360)
	ReadRotation(port SmartPort) (float64, error)
	// ReadYaw returns the heading of the inertial sensor in degrees [-180, 180]
	ReadYaw() (float64, error)
	SetMotorVoltage(port SmartPort, mv int) error
	SetDigitalOutput(port AdiPort, value bool) error
	ReadController() (ControllerState, error)
}

// Stepper is implemented by simulated hardware advanced by the control loop
type Stepper interface {
	Step(dt time.Duration)
}

// Motor is a motor on a smart port, optionally mounted in reverse
type Motor struct {
	Port    SmartPort `json:"port"`
	Reverse bool      `json:"reverse"`
}

// Set writes a voltage to the motor, applying its reversal
func (m Motor) Set(hw Interface, mv int) error {
	if m.Reverse {
		mv = -mv
	}
	return hw.SetMotorVoltage(m.Port, mv)
}

// MotorGroup drives several motors with the same voltage
type MotorGroup []Motor

// Set writes mv to every motor of the group and returns the first error
func (g MotorGroup) Set(hw Interface, mv int) error {
	var result error
	for _, motor := range g {
		if err := motor.Set(hw, mv); err != nil && result == nil {
			result = err
		}
	}
	return result
}

func (g MotorGroup) Ports() []SmartPort {
	result := make([]SmartPort, len(g))
	for i, motor := range g {
		result[i] = motor.Port
	}
	return result
}
