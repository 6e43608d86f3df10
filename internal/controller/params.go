package controller

import (
	"time"

	"github.com/bot-go-brr/brain/internal/configuration"
	"github.com/bot-go-brr/brain/internal/control_loop"
	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/joystick"
)

// Button assignment of the driver controller
const (
	ButtonBeltUp   = hardware.ButtonR1
	ButtonBeltDown = hardware.ButtonR2
	ButtonSolenoid = hardware.ButtonL1
	ButtonPrecise  = hardware.ButtonL2
)

// Params is everything a Controller needs to know about the robot
type Params struct {
	TickRate time.Duration

	Left          hardware.MotorGroup
	Right         hardware.MotorGroup
	LeftRotation  hardware.SmartPort
	RightRotation hardware.SmartPort

	Belt        hardware.MotorGroup
	BeltVoltage int

	Solenoid      hardware.AdiPort
	SolenoidDelay int

	Shaper            joystick.Shaper
	TurnMultiplier    float64
	PreciseMultiplier float64
	DampingFactor     float64
	MaxVoltageChange  float64

	WheelDiameter float64

	Rotation control_loop.PidConsts
	Position control_loop.PidConsts

	AutonomousDuration time.Duration
	OpcontrolDuration  time.Duration
}

func ParamsFromConfig(config configuration.Configuration) Params {
	return Params{
		TickRate:           config.TickRate,
		Left:               configuration.MotorGroup(config.Hardware.Left),
		Right:              configuration.MotorGroup(config.Hardware.Right),
		LeftRotation:       config.Hardware.LeftRotation,
		RightRotation:      config.Hardware.RightRotation,
		Belt:               configuration.MotorGroup(config.Belt.Motors),
		BeltVoltage:        config.Belt.Voltage,
		Solenoid:           config.Solenoid.Port,
		SolenoidDelay:      config.Solenoid.Delay,
		Shaper:             config.Drive.Shaper(),
		TurnMultiplier:     config.Drive.TurnMultiplier,
		PreciseMultiplier:  config.Drive.PreciseMultiplier,
		DampingFactor:      config.Drive.DampingFactor,
		MaxVoltageChange:   config.Drive.MaxVoltageChange,
		WheelDiameter:      config.Odometry.WheelDiameter,
		Rotation:           config.Pid.Rotation,
		Position:           config.Pid.Position,
		AutonomousDuration: config.Match.AutonomousDuration,
		OpcontrolDuration:  config.Match.OpcontrolDuration,
	}
}

// DefaultParams matches the default configuration
func DefaultParams() Params {
	return Params{
		TickRate:          50 * time.Millisecond,
		Left:              hardware.MotorGroup{{Port: 1}, {Port: 2}},
		Right:             hardware.MotorGroup{{Port: 3, Reverse: true}, {Port: 4, Reverse: true}},
		LeftRotation:      5,
		RightRotation:     6,
		Belt:              hardware.MotorGroup{{Port: 7}},
		BeltVoltage:       12000,
		Solenoid:          1,
		SolenoidDelay:     10,
		Shaper:            joystick.DefaultShaper,
		TurnMultiplier:    0.6,
		PreciseMultiplier: 0.4,
		DampingFactor:     control_loop.DefaultDampingFactor,
		WheelDiameter:     69.85,
		Rotation:          control_loop.PidConsts{Kp: 200, Ki: 50, PredictionWindow: 0.05, Saturation: 12000},
		Position:          control_loop.PidConsts{Kp: 60, Ki: 10, PredictionWindow: 0.05, Saturation: 12000},

		AutonomousDuration: 15 * time.Second,
		OpcontrolDuration:  105 * time.Second,
	}
}
