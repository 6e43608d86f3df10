package hardware

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// SimulatorConfig describes the simulated differential drive base
type SimulatorConfig struct {
	Left  MotorGroup
	Right MotorGroup

	LeftSensor  SmartPort
	RightSensor SmartPort

	// WheelDiameter of the tracking wheels in mm
	WheelDiameter float64
	// TrackWidth between the left and right wheels in mm
	TrackWidth float64
	// MaxWheelRPM at 12000 mV
	MaxWheelRPM float64
}

func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		Left:          MotorGroup{{Port: 1}, {Port: 2}},
		Right:         MotorGroup{{Port: 3, Reverse: true}, {Port: 4, Reverse: true}},
		LeftSensor:    5,
		RightSensor:   6,
		WheelDiameter: 69.85,
		TrackWidth:    300,
		MaxWheelRPM:   200,
	}
}

// Simulator is a deterministic stand-in for the robot brain. Wheel speed is
// proportional to the commanded voltage, rotation sensors wrap at 360 degrees
// and the heading follows the wheel speed difference.
type Simulator struct {
	mu     sync.Mutex
	config SimulatorConfig

	motors  map[SmartPort]int
	digital map[AdiPort]bool

	leftAngle  float64
	rightAngle float64
	yaw        float64

	script    []ControllerState
	lastInput ControllerState

	rotationErrors map[SmartPort]error
	yawError       error
	motorErrors    map[SmartPort]error
}

func NewSimulator(config SimulatorConfig) *Simulator {
	return &Simulator{
		config:         config,
		motors:         map[SmartPort]int{},
		digital:        map[AdiPort]bool{},
		rotationErrors: map[SmartPort]error{},
		motorErrors:    map[SmartPort]error{},
	}
}

// Script queues controller samples, one is consumed per ReadController call.
// The last sample is repeated once the script is exhausted.
func (s *Simulator) Script(states ...ControllerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, states...)
}

// FailRotation makes reads of the given rotation sensor fail with err, nil clears it
func (s *Simulator) FailRotation(port SmartPort, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.rotationErrors, port)
	} else {
		s.rotationErrors[port] = err
	}
}

func (s *Simulator) FailYaw(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yawError = err
}

func (s *Simulator) FailMotor(port SmartPort, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.motorErrors, port)
	} else {
		s.motorErrors[port] = err
	}
}

func (s *Simulator) ReadRotation(port SmartPort) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rotationErrors[port]; err != nil {
		return 0, fmt.Errorf("%w: rotation %d: %v", ErrSensorRead, port, err)
	}
	switch port {
	case s.config.LeftSensor:
		return s.leftAngle, nil
	case s.config.RightSensor:
		return s.rightAngle, nil
	default:
		return 0, fmt.Errorf("%w: no rotation sensor on port %d", ErrSensorRead, port)
	}
}

func (s *Simulator) ReadYaw() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.yawError != nil {
		return 0, fmt.Errorf("%w: yaw: %v", ErrSensorRead, s.yawError)
	}
	return s.yaw, nil
}

func (s *Simulator) SetMotorVoltage(port SmartPort, mv int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.motorErrors[port]; err != nil {
		return fmt.Errorf("%w: motor %d: %v", ErrActuatorWrite, port, err)
	}
	s.motors[port] = mv
	return nil
}

func (s *Simulator) SetDigitalOutput(port AdiPort, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digital[port] = value
	return nil
}

func (s *Simulator) ReadController() (ControllerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.script) > 0 {
		s.lastInput = s.script[0]
		s.script = s.script[1:]
	}
	return s.lastInput, nil
}

// MotorVoltage returns the last voltage written to the port
func (s *Simulator) MotorVoltage(port SmartPort) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port]
}

func (s *Simulator) DigitalOutput(port AdiPort) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digital[port]
}

// Yaw returns the simulated heading in degrees
func (s *Simulator) Yaw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.yaw
}

// SetYaw places the simulated robot at the given heading
func (s *Simulator) SetYaw(yaw float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.yaw = wrapHeading(yaw)
}

// groupVoltage is the voltage the wheels of a side actually see
func (s *Simulator) groupVoltage(group MotorGroup) float64 {
	if len(group) == 0 {
		return 0
	}
	sum := 0.0
	for _, motor := range group {
		mv := float64(s.motors[motor.Port])
		if motor.Reverse {
			mv = -mv
		}
		sum += mv
	}
	return sum / float64(len(group))
}

// Step advances the simulation by dt
func (s *Simulator) Step(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds := dt.Seconds()
	degreesPerSecond := s.config.MaxWheelRPM * 360 / 60

	leftDelta := s.groupVoltage(s.config.Left) / 12000 * degreesPerSecond * seconds
	rightDelta := s.groupVoltage(s.config.Right) / 12000 * degreesPerSecond * seconds

	s.leftAngle = wrapRotation(s.leftAngle + leftDelta)
	s.rightAngle = wrapRotation(s.rightAngle + rightDelta)

	if s.config.TrackWidth > 0 {
		mmPerDegree := math.Pi * s.config.WheelDiameter / 360
		arc := (leftDelta - rightDelta) * mmPerDegree
		s.yaw = wrapHeading(s.yaw + arc/s.config.TrackWidth*180/math.Pi)
	}
}

func wrapRotation(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

func wrapHeading(angle float64) float64 {
	angle = math.Mod(angle+180, 360)
	if angle < 0 {
		angle += 360
	}
	return angle - 180
}
