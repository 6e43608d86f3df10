// Package recorder run-length compresses the instructions observed during a
// driver controlled session into an autonomous program.
package recorder

import (
	"fmt"
	"math"

	"github.com/bot-go-brr/brain/internal/auton"
	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/bot-go-brr/brain/internal/ui"
)

// Storage persists a flushed recording
type Storage interface {
	Write(key string, data []byte) error
}

type State int

const (
	Idle State = iota
	Accumulating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Accumulating:
		return "accumulating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrStorageUnavailable is shared with playback so callers check a single sentinel
var ErrStorageUnavailable = auton.ErrStorageUnavailable

type Recorder struct {
	storage Storage
	key     string

	state     State
	current   inst.Instruction
	heldTicks uint32

	program auton.Program
}

// New creates a recorder writing to storage under key. A nil storage is
// allowed, flushed recordings are discarded in that case.
func New(storage Storage, key string) *Recorder {
	return &Recorder{
		storage: storage,
		key:     key,
	}
}

// Observe records the instruction of one control tick
func (r *Recorder) Observe(i inst.Instruction) {
	switch r.state {
	case Idle:
		r.state = Accumulating
		r.current = i
		r.heldTicks = 1
	case Accumulating:
		if i == r.current && r.heldTicks < math.MaxUint32 {
			r.heldTicks++
			return
		}
		r.emit()
		r.current = i
		r.heldTicks = 1
	}
}

func (r *Recorder) emit() {
	r.program = append(r.program, auton.Entry{Instruction: r.current, Duration: r.heldTicks})
}

// Flush emits the pending run, writes the encoded program and resets the
// recorder to Idle. The recording is discarded if it cannot be written.
func (r *Recorder) Flush() error {
	if r.state == Accumulating {
		r.emit()
	}
	program := r.program
	r.reset()

	if len(program) == 0 {
		return nil
	}
	if r.storage == nil {
		ui.Warning("Discarding recording '%s' (%d ticks): %v", r.key, program.Ticks(), ErrStorageUnavailable)
		return fmt.Errorf("flush %s: %w", r.key, ErrStorageUnavailable)
	}

	err := r.storage.Write(r.key, program.Encode())
	if err != nil {
		ui.Warning("Discarding recording '%s' (%d ticks): %v", r.key, program.Ticks(), err)
		return fmt.Errorf("flush %s: %w", r.key, err)
	}
	ui.Debug("Stored recording '%s' with %d entries (%d ticks)", r.key, len(program), program.Ticks())
	return nil
}

func (r *Recorder) reset() {
	r.state = Idle
	r.current = inst.Instruction{}
	r.heldTicks = 0
	r.program = nil
}

// Program returns the entries emitted so far, excluding the pending run
func (r *Recorder) Program() auton.Program {
	result := make(auton.Program, len(r.program))
	copy(result, r.program)
	return result
}

// Pending returns the instruction currently being accumulated and its tick count
func (r *Recorder) Pending() (inst.Instruction, uint32, bool) {
	return r.current, r.heldTicks, r.state == Accumulating
}

func (r *Recorder) State() State {
	return r.state
}

func (r *Recorder) Key() string {
	return r.key
}

// SetKey changes the key used by the next Flush
func (r *Recorder) SetKey(key string) {
	r.key = key
}
