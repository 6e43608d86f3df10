// Package hardware abstracts the robot brain: smart ports with motors and
// rotation sensors, three-wire digital outputs, the inertial sensor and the
// driver controller.
package hardware

import (
	"errors"
	"fmt"
)

const (
	MinSmartPort = 1
	MaxSmartPort = 21

	MinAdiPort = 1
	MaxAdiPort = 8
)

var ErrInvalidPort = errors.New("invalid port")

// SmartPort is a validated smart port number (1-21)
type SmartPort uint8

// AdiPort is a validated three-wire port (1-8, labeled 'A'-'H')
type AdiPort uint8

func NewSmartPort(port uint8) (SmartPort, error) {
	if port < MinSmartPort || port > MaxSmartPort {
		return 0, fmt.Errorf("%w: smart port %d not in [%d, %d]", ErrInvalidPort, port, MinSmartPort, MaxSmartPort)
	}
	return SmartPort(port), nil
}

func NewAdiPort(port uint8) (AdiPort, error) {
	if port < MinAdiPort || port > MaxAdiPort {
		return 0, fmt.Errorf("%w: adi port %d not in [%d, %d]", ErrInvalidPort, port, MinAdiPort, MaxAdiPort)
	}
	return AdiPort(port), nil
}

// ParseAdiPort accepts both the letter ('A'-'H', case-insensitive) and the number
func ParseAdiPort(s string) (AdiPort, error) {
	if len(s) == 1 {
		c := s[0]
		switch {
		case c >= 'A' && c <= 'H':
			return AdiPort(c - 'A' + 1), nil
		case c >= 'a' && c <= 'h':
			return AdiPort(c - 'a' + 1), nil
		case c >= '1' && c <= '8':
			return AdiPort(c - '0'), nil
		}
	}
	return 0, fmt.Errorf("%w: adi port '%s'", ErrInvalidPort, s)
}

func (p SmartPort) Valid() bool {
	return p >= MinSmartPort && p <= MaxSmartPort
}

func (p SmartPort) String() string {
	return fmt.Sprintf("%d", uint8(p))
}

func (p AdiPort) Valid() bool {
	return p >= MinAdiPort && p <= MaxAdiPort
}

func (p AdiPort) String() string {
	if !p.Valid() {
		return fmt.Sprintf("?%d", uint8(p))
	}
	return string(rune('A' + p - 1))
}
