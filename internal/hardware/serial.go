package hardware

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 20 * time.Millisecond
)

var (
	ErrProtocol = errors.New("protocol error")
	ErrTimeout  = errors.New("reply timeout")
)

// errNoData is what timeoutReader reports for a read that timed out
var errNoData = errors.New("no data")

// SerialBrain talks to the robot brain co-processor over a line based protocol.
// Every command carries a sequence tag that the reply echoes:
//
//	#<seq> ROT <port>          -> #<seq> VAL <degrees>
//	#<seq> YAW                 -> #<seq> VAL <degrees>
//	#<seq> MOT <port> <mv>     -> #<seq> OK
//	#<seq> DIG <port> <0|1>    -> #<seq> OK
//	#<seq> CTL                 -> #<seq> CTL <lx> <ly> <rx> <ry> <buttons-hex>
//
// Any command may be answered with `#<seq> ERR <message>`. Replies with a
// different tag arrived after their command timed out and are dropped.
type SerialBrain struct {
	mu      sync.Mutex
	link    io.ReadWriter
	reader  *bufio.Reader
	closer  io.Closer
	timeout time.Duration
	seq     uint32
}

// timeoutReader turns the (0, nil) result of a timed out serial read into an
// error, so bufio hands control back instead of retrying
type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && err == nil {
		return 0, errNoData
	}
	return n, err
}

// NewSerialBrain creates a SerialBrain over an already opened link. A request
// fails if its reply does not arrive within timeout.
func NewSerialBrain(link io.ReadWriter, timeout time.Duration) *SerialBrain {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	b := &SerialBrain{
		link:    link,
		reader:  bufio.NewReader(timeoutReader{r: link}),
		timeout: timeout,
	}
	if closer, ok := link.(io.Closer); ok {
		b.closer = closer
	}
	return b
}

// OpenSerialBrain opens the serial device at path
func OpenSerialBrain(path string, baudRate int, readTimeout time.Duration) (*SerialBrain, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if readTimeout > 0 {
		if err := port.SetReadTimeout(readTimeout); err != nil {
			_ = port.Close()
			return nil, err
		}
	}
	return NewSerialBrain(port, readTimeout), nil
}

// ListSerialPorts returns the names of all serial devices
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

func (b *SerialBrain) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// request sends one command and returns the fields of the reply, without the tag
func (b *SerialBrain) request(format string, a ...interface{}) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	tag := "#" + strconv.FormatUint(uint64(b.seq), 10)
	command := fmt.Sprintf(format, a...)
	if _, err := io.WriteString(b.link, tag+" "+command+"\n"); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(b.timeout)
	var line string
	for {
		chunk, err := b.reader.ReadString('\n')
		line += chunk
		switch {
		case err == nil:
			fields := strings.Fields(line)
			line = ""
			if len(fields) == 0 || fields[0] != tag {
				// stale or garbled
				continue
			}
			fields = fields[1:]
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s: %w: empty reply", command, ErrProtocol)
			}
			if fields[0] == "ERR" {
				return nil, fmt.Errorf("%s: %s", command, strings.Join(fields[1:], " "))
			}
			return fields, nil
		case errors.Is(err, errNoData):
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("%s: %w after %v", command, ErrTimeout, b.timeout)
			}
		case errors.Is(err, io.EOF) && len(line) > 0:
			return nil, fmt.Errorf("%s: %w", command, io.ErrUnexpectedEOF)
		default:
			return nil, fmt.Errorf("%s: %w", command, err)
		}
	}
}

func (b *SerialBrain) readValue(format string, a ...interface{}) (float64, error) {
	fields, err := b.request(format, a...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSensorRead, err)
	}
	if len(fields) != 2 || fields[0] != "VAL" {
		return 0, fmt.Errorf("%w: %w: unexpected reply '%s'", ErrSensorRead, ErrProtocol, strings.Join(fields, " "))
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: %v", ErrSensorRead, ErrProtocol, err)
	}
	return value, nil
}

func (b *SerialBrain) expectOk(format string, a ...interface{}) error {
	fields, err := b.request(format, a...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrActuatorWrite, err)
	}
	if len(fields) != 1 || fields[0] != "OK" {
		return fmt.Errorf("%w: %w: unexpected reply '%s'", ErrActuatorWrite, ErrProtocol, strings.Join(fields, " "))
	}
	return nil
}

func (b *SerialBrain) ReadRotation(port SmartPort) (float64, error) {
	return b.readValue("ROT %d", port)
}

func (b *SerialBrain) ReadYaw() (float64, error) {
	return b.readValue("YAW")
}

func (b *SerialBrain) SetMotorVoltage(port SmartPort, mv int) error {
	return b.expectOk("MOT %d %d", port, mv)
}

func (b *SerialBrain) SetDigitalOutput(port AdiPort, value bool) error {
	v := 0
	if value {
		v = 1
	}
	return b.expectOk("DIG %d %d", port, v)
}

func (b *SerialBrain) ReadController() (ControllerState, error) {
	fields, err := b.request("CTL")
	if err != nil {
		return ControllerState{}, fmt.Errorf("%w: %w", ErrSensorRead, err)
	}
	if len(fields) != 6 || fields[0] != "CTL" {
		return ControllerState{}, fmt.Errorf("%w: %w: unexpected reply '%s'", ErrSensorRead, ErrProtocol, strings.Join(fields, " "))
	}

	var axes [4]int
	for i := range axes {
		axes[i], err = strconv.Atoi(fields[i+1])
		if err != nil {
			return ControllerState{}, fmt.Errorf("%w: %w: %v", ErrSensorRead, ErrProtocol, err)
		}
	}
	buttons, err := strconv.ParseUint(fields[5], 16, 16)
	if err != nil {
		return ControllerState{}, fmt.Errorf("%w: %w: %v", ErrSensorRead, ErrProtocol, err)
	}

	return ControllerState{
		LeftX:   axes[0],
		LeftY:   axes[1],
		RightX:  axes[2],
		RightY:  axes[3],
		Buttons: Buttons(buttons),
	}, nil
}
