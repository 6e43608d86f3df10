package configuration

import (
	"errors"
	"fmt"
	"time"

	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/persistence"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/bot-go-brr/brain/internal/util"
	"github.com/looplab/tarjan"
)

const (
	MinTickRate = 10 * time.Millisecond
	MaxTickRate = 50 * time.Millisecond
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.TickRate < MinTickRate || config.TickRate > MaxTickRate {
		return fmt.Errorf("tickRate %v must be within [%v, %v]", config.TickRate, MinTickRate, MaxTickRate)
	}

	err := validateStorage(config)
	if err != nil {
		return err
	}
	err = validateHardware(config)
	if err != nil {
		return err
	}
	err = validateDrive(config)
	if err != nil {
		return err
	}
	err = validatePid("rotation", config.Pid.Rotation.Saturation)
	if err != nil {
		return err
	}
	err = validatePid("position", config.Pid.Position.Saturation)
	if err != nil {
		return err
	}
	err = validateRoutines(config)
	if err != nil {
		return err
	}

	if config.Match.AutonomousDuration < 0 || config.Match.OpcontrolDuration < 0 {
		return errors.New("match durations must not be negative")
	}

	return nil
}

func validateStorage(config *Configuration) error {
	switch config.Storage.Kind {
	case "", persistence.KindBolt:
		if len(config.DbPath) == 0 {
			return errors.New("storage: dbPath is required for bolt storage")
		}
	case persistence.KindFile:
		if len(config.Storage.Dir) == 0 {
			return errors.New("storage: dir is required for file storage")
		}
	default:
		return fmt.Errorf("storage: %w: '%s', expected '%s' or '%s'",
			persistence.ErrUnknownKind, config.Storage.Kind, persistence.KindBolt, persistence.KindFile)
	}
	return nil
}

func validateHardware(config *Configuration) error {
	if len(config.Hardware.Left) == 0 || len(config.Hardware.Right) == 0 {
		return errors.New("hardware: at least one left and one right drive motor is required")
	}

	var ports []hardware.SmartPort
	for _, motor := range config.Hardware.Left {
		ports = append(ports, motor.Port)
	}
	for _, motor := range config.Hardware.Right {
		ports = append(ports, motor.Port)
	}
	for _, motor := range config.Belt.Motors {
		ports = append(ports, motor.Port)
	}
	ports = append(ports, config.Hardware.LeftRotation, config.Hardware.RightRotation)

	for _, port := range ports {
		if !port.Valid() {
			return fmt.Errorf("%w: smart port %d not in [%d, %d]", hardware.ErrInvalidPort, port, hardware.MinSmartPort, hardware.MaxSmartPort)
		}
	}
	if duplicates := util.Duplicates(ports); len(duplicates) > 0 {
		return fmt.Errorf("smart ports used more than once: %v", duplicates)
	}

	if !config.Solenoid.Port.Valid() {
		return fmt.Errorf("%w: solenoid port %d", hardware.ErrInvalidPort, config.Solenoid.Port)
	}
	if config.Solenoid.Delay < 0 {
		return errors.New("solenoid: delay must not be negative")
	}

	if !config.Hardware.Simulate && len(config.Hardware.Serial.Path) == 0 {
		return errors.New("hardware: serial path is required unless simulating")
	}
	return nil
}

func validateDrive(config *Configuration) error {
	drive := config.Drive
	if drive.K1 <= 0 {
		return errors.New("drive: k1 must be positive")
	}
	if drive.MaxVoltage <= 0 || drive.MaxVoltage > 12000 {
		return errors.New("drive: maxVoltage must be within (0, 12000]")
	}
	if drive.DampingFactor < 0 || drive.DampingFactor > 1 {
		return errors.New("drive: dampingFactor must be within [0, 1]")
	}
	if drive.MaxVoltageChange < 0 {
		return errors.New("drive: maxVoltageChange must not be negative")
	}
	if config.Odometry.WheelDiameter <= 0 {
		return errors.New("odometry: wheelDiameter must be positive")
	}
	return nil
}

func validatePid(name string, saturation float64) error {
	if saturation <= 0 {
		return fmt.Errorf("pid %s: saturation must be positive", name)
	}
	return nil
}

func validateRoutines(config *Configuration) error {
	graph := make(map[interface{}][]interface{})

	ids := map[string]bool{}
	for _, routine := range config.Routines {
		if len(routine.ID) <= 0 {
			return errors.New("routine: missing id")
		}
		if ids[routine.ID] {
			return fmt.Errorf("duplicate routine id detected: %s", routine.ID)
		}
		ids[routine.ID] = true
	}

	for _, routine := range config.Routines {
		var connections []interface{}
		if len(routine.Then) > 0 {
			if routine.Then == routine.ID {
				return fmt.Errorf("routine %s: a routine cannot continue with itself", routine.ID)
			}
			if !ids[routine.Then] {
				return fmt.Errorf("routine %s: no routine definition with id '%s' found", routine.ID, routine.Then)
			}
			connections = append(connections, routine.Then)
		}
		graph[routine.ID] = connections

		if !isRoutineInUse(routine, config) {
			ui.Warning("Unused routine configuration: %s", routine.ID)
		}
	}

	err := validateNoLoops(graph)
	if err != nil {
		return err
	}

	if len(config.Autonomous.Routine) > 0 && !ids[config.Autonomous.Routine] {
		return fmt.Errorf("autonomous: no routine definition with id '%s' found", config.Autonomous.Routine)
	}
	return nil
}

func validateNoLoops(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created a routine cycle: %v", items)
		}
	}
	return nil
}

func isRoutineInUse(routine RoutineConfig, config *Configuration) bool {
	if config.Autonomous.Routine == routine.ID {
		return true
	}
	for _, other := range config.Routines {
		if other.Then == routine.ID {
			return true
		}
	}
	return false
}
