package controller

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/control_loop"
	"github.com/bot-go-brr/brain/internal/drive"
	"github.com/bot-go-brr/brain/internal/hardware"
	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/bot-go-brr/brain/internal/odom"
	"github.com/bot-go-brr/brain/internal/recorder"
	"github.com/bot-go-brr/brain/internal/telemetry"
	"github.com/bot-go-brr/brain/internal/ui"
	"github.com/bot-go-brr/brain/internal/util"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseOpcontrol  Phase = "opcontrol"
	PhaseAutonomous Phase = "autonomous"
)

// tickWindowSize is the number of tick durations kept for statistics
const tickWindowSize = 100

type Statistics struct {
	Ticks          uint64 `json:"ticks"`
	SensorErrors   uint64 `json:"sensorErrors"`
	ActuatorErrors uint64 `json:"actuatorErrors"`
	Overruns       uint64 `json:"overruns"`
	DroppedLogs    uint64 `json:"droppedLogs"`

	RotationOutput float64 `json:"rotationOutput"`
	PositionOutput float64 `json:"positionOutput"`
	Position       float64 `json:"position"`

	MaxTickDuration time.Duration `json:"maxTickDuration"`
	AvgTickDuration time.Duration `json:"avgTickDuration"`
}

// Controller runs the sense -> correct -> actuate pipeline of the robot, one
// pass per tick, for driver control and autonomous playback. The control state
// is owned by the goroutine calling the Run* / *Tick methods; statistics and
// telemetry may be read concurrently.
type Controller struct {
	id     string
	hw     hardware.Interface
	params Params
	log    *ui.TickLog

	telemetry *telemetry.Store

	recordingStorage recorder.Storage
	recordingKey     func() string
	recorder         *recorder.Recorder

	programSource auton.Source
	programKeys   []string
	player        *auton.Player

	tracker   odom.Tracker
	odomState odom.State
	frame     drive.PositionFrame
	rot       *control_loop.AxisLoop
	linear    *control_loop.AxisLoop
	damper    *drive.Damper
	user      *drive.UserDrive

	lastYaw   float64
	lastLeft  float64
	lastRight float64

	phase            Phase
	beltDirection    int
	solenoid         bool
	solenoidCooldown int
	leftVoltage      int
	rightVoltage     int
	current          *inst.Instruction

	statsMu    sync.RWMutex
	stats      Statistics
	tickWindow *rolling.PointPolicy
}

type Option func(c *Controller)

// WithTelemetry publishes a snapshot into store after every tick
func WithTelemetry(store *telemetry.Store) Option {
	return func(c *Controller) {
		c.telemetry = store
	}
}

// WithRecording records every opcontrol session into storage. key is called
// once per session to name the recording.
func WithRecording(storage recorder.Storage, key func() string) Option {
	return func(c *Controller) {
		c.recordingStorage = storage
		c.recordingKey = key
	}
}

// WithProgram plays the programs stored under keys during the autonomous phase
func WithProgram(source auton.Source, keys ...string) Option {
	return func(c *Controller) {
		c.programSource = source
		c.programKeys = keys
	}
}

// WithTickLog replaces the default tick log
func WithTickLog(log *ui.TickLog) Option {
	return func(c *Controller) {
		c.log = log
	}
}

func New(id string, hw hardware.Interface, params Params, options ...Option) *Controller {
	dt := params.TickRate.Seconds()
	rot := control_loop.NewRotationLoop(params.Rotation, dt)

	c := &Controller{
		id:         id,
		hw:         hw,
		params:     params,
		log:        ui.NewTickLog(),
		tracker:    odom.NewTracker(params.WheelDiameter),
		rot:        rot,
		linear:     control_loop.NewLinearLoop(params.Position, dt),
		damper:     drive.NewDamper(params.DampingFactor, params.MaxVoltageChange),
		user:       drive.NewUserDrive(params.Shaper, params.TurnMultiplier, rot),
		phase:      PhaseIdle,
		tickWindow: util.CreateRollingWindow(tickWindowSize),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Controller) GetId() string {
	return c.id
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// GetStatistics returns a copy of the current statistics
func (c *Controller) GetStatistics() Statistics {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *Controller) updateStats(f func(s *Statistics)) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	f(&c.stats)
}

// StartSession prepares a new opcontrol or autonomous session. Odometry starts
// at 0 from the current sensor readings, correction state and the position
// frame are cleared and,
// depending on the phase, the recording is started or the program is loaded.
func (c *Controller) StartSession(phase Phase) {
	c.phase = phase

	yaw, left, right := c.readSensors()
	c.odomState = odom.NewState(left, right)
	c.frame.Reset()
	c.rot.Reset()
	c.linear.Reset()
	c.damper = drive.NewDamper(c.params.DampingFactor, c.params.MaxVoltageChange)
	c.user = drive.NewUserDrive(c.params.Shaper, c.params.TurnMultiplier, c.rot)
	c.beltDirection = 0
	c.solenoidCooldown = 0
	c.current = nil
	c.lastYaw = yaw

	switch phase {
	case PhaseOpcontrol:
		c.recorder = nil
		if c.recordingKey != nil {
			key := c.recordingKey()
			c.recorder = recorder.New(c.recordingStorage, key)
			c.log.Info("Recording opcontrol session as '%s'", key)
		}
	case PhaseAutonomous:
		player, err := auton.LoadPlayer(c.programSource, c.programKeys...)
		if err != nil {
			c.log.Error("Autonomous program unavailable: %v", err)
		}
		c.player = player
	}
	c.flushLog()
}

// EndSession stops all actuators and stores the recording, if any
func (c *Controller) EndSession() {
	c.stopAll()

	if c.phase == PhaseOpcontrol && c.recorder != nil {
		// failures are logged by the recorder, the recording is lost
		if err := c.recorder.Flush(); err == nil {
			c.log.Info("Stored recording '%s'", c.recorder.Key())
		}
		c.recorder = nil
	}
	c.player = nil
	c.phase = PhaseIdle
	c.flushLog()
	c.publish()
}

// readSensors reads yaw and both rotation sensors. A failed read falls back
// to the last good value, so a single bad tick does not disturb the control math.
func (c *Controller) readSensors() (yaw, left, right float64) {
	failed := 0

	yaw, err := c.hw.ReadYaw()
	if err != nil {
		c.log.Warning("Unable to read yaw: %v", err)
		yaw = c.lastYaw
		failed++
	}
	left, err = c.hw.ReadRotation(c.params.LeftRotation)
	if err != nil {
		c.log.Warning("Unable to read left rotation sensor: %v", err)
		left = c.lastLeft
		failed++
	}
	right, err = c.hw.ReadRotation(c.params.RightRotation)
	if err != nil {
		c.log.Warning("Unable to read right rotation sensor: %v", err)
		right = c.lastRight
		failed++
	}

	c.lastYaw, c.lastLeft, c.lastRight = yaw, left, right
	if failed > 0 {
		c.updateStats(func(s *Statistics) {
			s.SensorErrors += uint64(failed)
		})
	}
	return yaw, left, right
}

// sense reads all sensors and advances odometry
func (c *Controller) sense() float64 {
	yaw, left, right := c.readSensors()
	c.tracker.Update(&c.odomState, left, right)
	return yaw
}

func (c *Controller) actuatorError(err error) {
	if err == nil {
		return
	}
	c.log.Warning("Actuator write failed: %v", err)
	c.updateStats(func(s *Statistics) {
		s.ActuatorErrors++
	})
}

func (c *Controller) setDrive(left, right int) {
	c.leftVoltage, c.rightVoltage = left, right
	c.actuatorError(c.params.Left.Set(c.hw, left))
	c.actuatorError(c.params.Right.Set(c.hw, right))
}

func (c *Controller) setBelt(direction int) {
	c.beltDirection = direction
	c.actuatorError(c.params.Belt.Set(c.hw, direction*c.params.BeltVoltage))
}

func (c *Controller) setSolenoid(active bool) {
	c.solenoid = active
	c.actuatorError(c.hw.SetDigitalOutput(c.params.Solenoid, active))
}

func (c *Controller) stopAll() {
	c.setDrive(0, 0)
	c.setBelt(0)
}

// OpcontrolTick runs one driver controlled tick
func (c *Controller) OpcontrolTick() {
	c.tick(func() bool {
		c.opcontrol()
		return true
	})
}

func (c *Controller) opcontrol() {
	input, err := c.hw.ReadController()
	if err != nil {
		c.log.Warning("Unable to read controller: %v", err)
		c.updateStats(func(s *Statistics) {
			s.SensorErrors++
		})
		// no input means no movement
		input = hardware.ControllerState{}
	}
	yaw := c.sense()

	sticks := drive.Sticks{LeftX: input.LeftX, LeftY: input.LeftY, RightX: input.RightX, RightY: input.RightY}
	left, right, thrust := c.user.Control(sticks, yaw)
	if input.Pressed(ButtonPrecise) {
		left = int(math.Round(float64(left) * c.params.PreciseMultiplier))
		right = int(math.Round(float64(right) * c.params.PreciseMultiplier))
		thrust = int(math.Round(float64(thrust) * c.params.PreciseMultiplier))
	}
	left, right = c.damper.Damp(left, right)
	c.setDrive(left, right)

	belt := 0
	switch {
	case input.Pressed(ButtonBeltUp):
		belt = 1
	case input.Pressed(ButtonBeltDown):
		belt = -1
	}
	c.setBelt(belt)

	if c.solenoidCooldown > 0 {
		c.solenoidCooldown--
	}
	if input.Pressed(ButtonSolenoid) && c.solenoidCooldown == 0 {
		c.solenoid = !c.solenoid
		c.solenoidCooldown = c.params.SolenoidDelay
	}
	c.setSolenoid(c.solenoid)

	position := c.frame.Relative(thrust, c.odomState.Position)
	i := inst.FromFloats(yaw, position, belt, c.solenoid, thrust)
	c.current = &i
	if c.recorder != nil {
		c.recorder.Observe(i)
	}
}

// AutonomousTick runs one autonomous tick. Returns false once the program is
// exhausted or unreadable, all actuators are stopped in that case.
func (c *Controller) AutonomousTick() bool {
	return c.tick(c.autonomous)
}

func (c *Controller) autonomous() bool {
	if c.player == nil {
		c.stopAll()
		return false
	}
	i, ok := c.player.Advance()
	if !ok {
		if err := c.player.Err(); err != nil {
			c.log.Error("Autonomous playback stopped: %v", err)
		}
		c.current = nil
		c.stopAll()
		return false
	}
	c.current = &i

	yaw := c.sense()
	position := c.odomState.Position
	target := c.frame.Absolute(int(i.Thrust), float64(i.TargetPosition), position)
	left, right := drive.Correct(
		c.rot, c.linear,
		float64(i.TargetAngle), yaw,
		target, position,
		int(i.Thrust),
	)
	c.setDrive(left, right)
	c.setBelt(i.BeltDirection())
	c.setSolenoid(i.SolenoidActive)

	c.updateStats(func(s *Statistics) {
		s.RotationOutput = float64(left-right) / 2
		s.PositionOutput = float64(left+right) / 2
	})
	return true
}

// tick wraps one pass of the pipeline with log flushing, timing and telemetry
func (c *Controller) tick(pass func() bool) bool {
	start := time.Now()
	result := pass()
	c.flushLog()
	duration := time.Since(start)

	c.tickWindow.Append(float64(duration))
	c.updateStats(func(s *Statistics) {
		s.Ticks++
		s.Position = c.odomState.Position
		if duration > c.params.TickRate {
			s.Overruns++
		}
		s.MaxTickDuration = time.Duration(util.GetWindowMax(c.tickWindow))
		s.AvgTickDuration = time.Duration(util.GetWindowAvg(c.tickWindow))
	})
	c.publish()
	return result
}

func (c *Controller) flushLog() {
	if dropped := c.log.Flush(); dropped > 0 {
		c.updateStats(func(s *Statistics) {
			s.DroppedLogs += uint64(dropped)
		})
	}
}

func (c *Controller) publish() {
	if c.telemetry == nil {
		return
	}
	snapshot := telemetry.Snapshot{
		Controller:   c.id,
		Phase:        string(c.phase),
		Tick:         c.GetStatistics().Ticks,
		Time:         time.Now(),
		Yaw:          c.lastYaw,
		Position:     c.odomState.Position,
		LeftVoltage:  c.leftVoltage,
		RightVoltage: c.rightVoltage,
		BeltVoltage:  c.beltDirection * c.params.BeltVoltage,
		Solenoid:     c.solenoid,
	}
	if c.current != nil {
		i := *c.current
		snapshot.Instruction = &i
	}
	if c.player != nil {
		snapshot.ProgramEntry, _ = c.player.Cursor()
	}
	c.telemetry.Publish(snapshot)
}

// step advances simulated hardware by one tick
func (c *Controller) step() {
	if stepper, ok := c.hw.(hardware.Stepper); ok {
		stepper.Step(c.params.TickRate)
	}
}

// RunOpcontrol runs driver control ticks until ctx is done
func (c *Controller) RunOpcontrol(ctx context.Context) error {
	c.StartSession(PhaseOpcontrol)
	defer c.EndSession()

	ui.Info("Starting opcontrol for '%s'", c.id)
	ticker := time.NewTicker(c.params.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Opcontrol for '%s' ended", c.id)
			return nil
		case <-ticker.C:
			c.OpcontrolTick()
			c.step()
		}
	}
}

// RunAutonomous plays the configured program until it ends or ctx is done
func (c *Controller) RunAutonomous(ctx context.Context) error {
	c.StartSession(PhaseAutonomous)
	defer c.EndSession()

	ui.Info("Starting autonomous for '%s'", c.id)
	ticker := time.NewTicker(c.params.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Autonomous for '%s' interrupted", c.id)
			return nil
		case <-ticker.C:
			if !c.AutonomousTick() {
				ui.Info("Autonomous program for '%s' finished", c.id)
				return nil
			}
			c.step()
		}
	}
}

// RunMatch runs the autonomous phase for AutonomousDuration followed by
// opcontrol for OpcontrolDuration (0 = until ctx is done)
func (c *Controller) RunMatch(ctx context.Context) error {
	autonomousCtx, cancel := context.WithTimeout(ctx, c.params.AutonomousDuration)
	err := c.RunAutonomous(autonomousCtx)
	if err == nil {
		// a program ending early idles until the phase is over
		<-autonomousCtx.Done()
	}
	cancel()
	if err != nil || ctx.Err() != nil {
		return err
	}

	opcontrolCtx := ctx
	if c.params.OpcontrolDuration > 0 {
		var cancelOpcontrol context.CancelFunc
		opcontrolCtx, cancelOpcontrol = context.WithTimeout(ctx, c.params.OpcontrolDuration)
		defer cancelOpcontrol()
	}
	return c.RunOpcontrol(opcontrolCtx)
}
