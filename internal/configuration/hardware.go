package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/mitchellh/mapstructure"
)

type HardwareConfig struct {
	// Simulate replaces the robot brain with the built-in simulator
	Simulate bool         `json:"simulate"`
	Serial   SerialConfig `json:"serial"`

	Left  []MotorConfig `json:"left"`
	Right []MotorConfig `json:"right"`

	LeftRotation  hardware.SmartPort `json:"leftRotation"`
	RightRotation hardware.SmartPort `json:"rightRotation"`

	// TrackWidth between the drive wheels in mm, only used by the simulator
	TrackWidth float64 `json:"trackWidth"`
}

type SerialConfig struct {
	Path        string        `json:"path"`
	BaudRate    int           `json:"baudRate"`
	ReadTimeout time.Duration `json:"readTimeout"`
}

type MotorConfig struct {
	Port    hardware.SmartPort `json:"port"`
	Reverse bool               `json:"reverse"`
}

func (m MotorConfig) Motor() hardware.Motor {
	return hardware.Motor{Port: m.Port, Reverse: m.Reverse}
}

// MotorGroup converts a list of motor configurations
func MotorGroup(configs []MotorConfig) hardware.MotorGroup {
	result := make(hardware.MotorGroup, len(configs))
	for i, config := range configs {
		result[i] = config.Motor()
	}
	return result
}

// portHookFunc returns a mapstructure decode hook turning plain port numbers
// (and letters for three-wire ports) into validated port values.
func portHookFunc() mapstructure.DecodeHookFuncType {
	smartPortType := reflect.TypeOf(hardware.SmartPort(0))
	adiPortType := reflect.TypeOf(hardware.AdiPort(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		switch t {
		case smartPortType:
			n, err := anyToUint8(data)
			if err != nil {
				return nil, fmt.Errorf("smart port: %w", err)
			}
			return hardware.NewSmartPort(n)
		case adiPortType:
			if s, ok := data.(string); ok {
				return hardware.ParseAdiPort(s)
			}
			n, err := anyToUint8(data)
			if err != nil {
				return nil, fmt.Errorf("adi port: %w", err)
			}
			return hardware.NewAdiPort(n)
		}
		return data, nil
	}
}

// anyToUint8 converts numeric and string values to uint8
func anyToUint8(v interface{}) (uint8, error) {
	var n int64
	switch val := v.(type) {
	case int:
		n = int64(val)
	case int64:
		n = val
	case uint8:
		return val, nil
	case uint64:
		if val > 255 {
			return 0, fmt.Errorf("%d out of range", val)
		}
		n = int64(val)
	case float64:
		if val != float64(int64(val)) {
			return 0, fmt.Errorf("%v is not an integer", val)
		}
		n = int64(val)
	case string:
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as int: %w", val, err)
		}
		n = parsed
	case hardware.SmartPort:
		return uint8(val), nil
	case hardware.AdiPort:
		return uint8(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to a port number", v)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("%d out of range", n)
	}
	return uint8(n), nil
}
