package hardware

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Millisecond

// fakeLink replays canned replies and records the commands written
type fakeLink struct {
	replies *strings.Reader
	written bytes.Buffer
}

func newFakeLink(replies ...string) *fakeLink {
	return &fakeLink{replies: strings.NewReader(strings.Join(replies, ""))}
}

func (f *fakeLink) Read(p []byte) (int, error) {
	return f.replies.Read(p)
}

func (f *fakeLink) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

// slowLink behaves like a serial port with a read timeout: reads return
// (0, nil) until the replies queued for the current write are released
type slowLink struct {
	mu       sync.Mutex
	pending  []string
	// replies released after the n-th write (1 based)
	releases map[int][]string
	writes   int
}

func (s *slowLink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return 0, nil
	}
	n := copy(p, s.pending[0])
	if n < len(s.pending[0]) {
		s.pending[0] = s.pending[0][n:]
	} else {
		s.pending = s.pending[1:]
	}
	return n, nil
}

func (s *slowLink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.pending = append(s.pending, s.releases[s.writes]...)
	return len(p), nil
}

func TestSerialBrain_ReadRotation(t *testing.T) {
	// GIVEN
	link := newFakeLink("#1 VAL 123.5\n")
	brain := NewSerialBrain(link, testTimeout)

	// WHEN
	value, err := brain.ReadRotation(7)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 123.5, value)
	assert.Equal(t, "#1 ROT 7\n", link.written.String())
}

func TestSerialBrain_Commands(t *testing.T) {
	// GIVEN
	link := newFakeLink("#1 OK\n", "#2 OK\n", "#3 VAL -90\n")
	brain := NewSerialBrain(link, testTimeout)

	// WHEN
	motorErr := brain.SetMotorVoltage(1, -6000)
	digitalErr := brain.SetDigitalOutput(2, true)
	yaw, yawErr := brain.ReadYaw()

	// THEN
	assert.NoError(t, motorErr)
	assert.NoError(t, digitalErr)
	assert.NoError(t, yawErr)
	assert.Equal(t, -90.0, yaw)
	assert.Equal(t, "#1 MOT 1 -6000\n#2 DIG 2 1\n#3 YAW\n", link.written.String())
}

func TestSerialBrain_ReadController(t *testing.T) {
	// GIVEN
	link := newFakeLink("#1 CTL 0 127 -64 0 5\n")
	brain := NewSerialBrain(link, testTimeout)

	// WHEN
	state, err := brain.ReadController()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, ControllerState{LeftY: 127, RightX: -64, Buttons: ButtonL1 | ButtonR1}, state)
}

func TestSerialBrain_Errors(t *testing.T) {
	// GIVEN
	link := newFakeLink("#1 ERR no device\n", "#2 VAL abc\n", "#3 VAL 1\n")
	brain := NewSerialBrain(link, testTimeout)

	// WHEN
	_, remoteErr := brain.ReadRotation(3)
	_, parseErr := brain.ReadYaw()
	motorErr := brain.SetMotorVoltage(2, 0)
	_, eofErr := brain.ReadYaw()

	// THEN
	assert.ErrorIs(t, remoteErr, ErrSensorRead)
	assert.Contains(t, remoteErr.Error(), "no device")
	assert.ErrorIs(t, parseErr, ErrProtocol)
	assert.ErrorIs(t, motorErr, ErrActuatorWrite)
	assert.ErrorIs(t, motorErr, ErrProtocol)
	assert.ErrorIs(t, eofErr, ErrSensorRead)
}

func TestSerialBrain_LateReplyIsNotTakenForTheNextOne(t *testing.T) {
	// GIVEN
	// the rotation reply only shows up together with the yaw reply
	link := &slowLink{releases: map[int][]string{
		2: {"#1 VAL 111\n", "#2 VAL 222\n"},
	}}
	brain := NewSerialBrain(link, testTimeout)

	// WHEN
	_, rotationErr := brain.ReadRotation(5)
	yaw, yawErr := brain.ReadYaw()

	// THEN
	assert.ErrorIs(t, rotationErr, ErrSensorRead)
	assert.ErrorIs(t, rotationErr, ErrTimeout)
	require.NoError(t, yawErr)
	assert.Equal(t, 222.0, yaw)
}

func TestSerialBrain_ReplySplitOverReads(t *testing.T) {
	// GIVEN
	link := &slowLink{releases: map[int][]string{
		1: {"#1 VA", "L 4", "2\n"},
	}}
	brain := NewSerialBrain(link, 50*time.Millisecond)

	// WHEN
	value, err := brain.ReadYaw()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 42.0, value)
}

func TestSerialBrain_TimeoutDropsPartialLine(t *testing.T) {
	// GIVEN
	link := &slowLink{releases: map[int][]string{
		1: {"#1 VA"},
		2: {"L 7\n", "#2 OK\n"},
	}}
	brain := NewSerialBrain(link, testTimeout)

	// WHEN
	_, yawErr := brain.ReadYaw()
	motorErr := brain.SetMotorVoltage(1, 0)

	// THEN
	assert.ErrorIs(t, yawErr, ErrTimeout)
	assert.NoError(t, motorErr)
}
