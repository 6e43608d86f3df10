package configuration

import (
	"testing"
	"time"

	"github.com/bot-go-brr/brain/internal/control_loop"
	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/persistence"
	"github.com/stretchr/testify/assert"
)

func validConfig() Configuration {
	return Configuration{
		DbPath:   "/etc/brain/brain.db",
		Storage:  StorageConfig{Kind: "bolt"},
		TickRate: 20 * time.Millisecond,
		Hardware: HardwareConfig{
			Simulate:      true,
			Left:          []MotorConfig{{Port: 1}, {Port: 2}},
			Right:         []MotorConfig{{Port: 3, Reverse: true}, {Port: 4, Reverse: true}},
			LeftRotation:  5,
			RightRotation: 6,
		},
		Drive: DriveConfig{
			K1:             1024,
			MaxVoltage:     12000,
			TurnMultiplier: 0.6,
			DampingFactor:  0.16,
		},
		Odometry: OdometryConfig{WheelDiameter: 69.85},
		Pid: PidConfig{
			Rotation: control_loop.PidConsts{Kp: 200, Saturation: 12000},
			Position: control_loop.PidConsts{Kp: 60, Saturation: 12000},
		},
		Belt:     BeltConfig{Motors: []MotorConfig{{Port: 7}}, Voltage: 12000},
		Solenoid: SolenoidConfig{Port: 1, Delay: 10},
		Routines: []RoutineConfig{
			{ID: "left", Then: "park"},
			{ID: "park"},
		},
		Autonomous: AutonomousConfig{Routine: "left"},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := validConfig()

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateTickRate(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.TickRate = 100 * time.Millisecond

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "tickRate 100ms must be within [10ms, 50ms]")
}

func TestValidateDuplicatePorts(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Belt.Motors = []MotorConfig{{Port: 5}}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "smart ports used more than once: [5]")
}

func TestValidateInvalidPort(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Hardware.LeftRotation = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.ErrorIs(t, err, hardware.ErrInvalidPort)
}

func TestValidateMissingDriveMotors(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Hardware.Right = nil

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "hardware: at least one left and one right drive motor is required")
}

func TestValidateStorage_FileKind(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.DbPath = ""
	config.Storage = StorageConfig{Kind: "file", Dir: "/media/sd/programs"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateStorage_FileKindRequiresDir(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Storage = StorageConfig{Kind: "file"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "storage: dir is required for file storage")
}

func TestValidateStorage_BoltKindRequiresDbPath(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.DbPath = ""

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "storage: dbPath is required for bolt storage")
}

func TestValidateStorage_UnknownKind(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Storage = StorageConfig{Kind: "sdcard"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.ErrorIs(t, err, persistence.ErrUnknownKind)
	assert.EqualError(t, err, "storage: unknown storage kind: 'sdcard', expected 'bolt' or 'file'")
}

func TestValidateSerialPathRequired(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Hardware.Simulate = false

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "hardware: serial path is required unless simulating")
}

func TestValidatePidSaturation(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Pid.Position.Saturation = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "pid position: saturation must be positive")
}

func TestValidateDuplicateRoutineId(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Routines = append(config.Routines, RoutineConfig{ID: "park"})

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "duplicate routine id detected: park")
}

func TestValidateRoutineReferencesMissing(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Routines[1].Then = "missing"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "routine park: no routine definition with id 'missing' found")
}

func TestValidateRoutineSelfReference(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Routines[1].Then = "park"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "routine park: a routine cannot continue with itself")
}

func TestValidateRoutineCycle(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Routines[1].Then = "left"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.ErrorContains(t, err, "you have created a routine cycle")
}

func TestValidateAutonomousRoutineMissing(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Autonomous.Routine = "right"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "autonomous: no routine definition with id 'right' found")
}

func TestResolveRoutine(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Routines[1].Program = "park-v2"

	// WHEN
	keys, err := config.ResolveRoutine("left")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []string{"left", "park-v2"}, keys)

	_, err = config.ResolveRoutine("unknown")
	assert.Error(t, err)
}
