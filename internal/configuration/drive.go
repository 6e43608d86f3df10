package configuration

import (
	"time"

	"github.com/bot-go-brr/brain/internal/control_loop"
	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/joystick"
)

type DriveConfig struct {
	// K1 and MaxVoltage define the joystick response curve
	K1         float64 `json:"k1"`
	MaxVoltage float64 `json:"maxVoltage"`

	TurnMultiplier float64 `json:"turnMultiplier"`
	// PreciseMultiplier scales the drive while the precise button is held
	PreciseMultiplier float64 `json:"preciseMultiplier"`

	DampingFactor float64 `json:"dampingFactor"`
	// MaxVoltageChange limits the increase per tick, 0 disables the limit
	MaxVoltageChange float64 `json:"maxVoltageChange"`
}

func (d DriveConfig) Shaper() joystick.Shaper {
	return joystick.NewShaperForMax(d.K1, d.MaxVoltage)
}

type OdometryConfig struct {
	// WheelDiameter of the tracking wheels in mm
	WheelDiameter float64 `json:"wheelDiameter"`
}

type PidConfig struct {
	Rotation control_loop.PidConsts `json:"rotation"`
	Position control_loop.PidConsts `json:"position"`
}

type BeltConfig struct {
	Motors  []MotorConfig `json:"motors"`
	Voltage int           `json:"voltage"`
}

type SolenoidConfig struct {
	Port hardware.AdiPort `json:"port"`
	// Delay in ticks between two toggles
	Delay int `json:"delay"`
}

type RecordingConfig struct {
	Enabled bool `json:"enabled"`
	// Key the recording is stored under, a random one is generated if empty
	Key string `json:"key"`
}

type AutonomousConfig struct {
	// Routine played during the autonomous phase
	Routine string `json:"routine"`
}

type MatchConfig struct {
	AutonomousDuration time.Duration `json:"autonomousDuration"`
	OpcontrolDuration  time.Duration `json:"opcontrolDuration"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type ApiConfig struct {
	Enabled bool `json:"enabled"`
	// Host the REST api binds to
	Host string `json:"host"`
	Port int    `json:"port"`
}
