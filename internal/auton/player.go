package auton

import (
	"errors"
	"fmt"

	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/bot-go-brr/brain/internal/ui"
)

// ErrStorageUnavailable is returned when there is no storage to read from or write to
var ErrStorageUnavailable = errors.New("storage unavailable")

// Source provides previously stored programs
type Source interface {
	Read(key string) ([]byte, error)
}

// Player yields one instruction per control tick from an encoded program.
// Entries are decoded when they are reached, a malformed entry ends playback.
type Player struct {
	data []byte

	entryIndex     int
	ticksIntoEntry uint32

	current  inst.Instruction
	duration uint32

	done bool
	err  error
}

// NewPlayer creates a player over an encoded program
func NewPlayer(data []byte) *Player {
	return &Player{data: data}
}

// NewProgramPlayer creates a player over an already decoded program
func NewProgramPlayer(program Program) *Player {
	return NewPlayer(program.Encode())
}

// LoadPlayer reads and concatenates the programs stored under keys.
// The returned player is always usable: if the storage is unavailable it is
// already terminal and the error is returned for reporting.
func LoadPlayer(source Source, keys ...string) (*Player, error) {
	if source == nil {
		ui.Warning("Unable to load autonomous program %v: %v", keys, ErrStorageUnavailable)
		return NewPlayer(nil), fmt.Errorf("load program %v: %w", keys, ErrStorageUnavailable)
	}

	var data []byte
	for _, key := range keys {
		chunk, err := source.Read(key)
		if err != nil {
			ui.Warning("Unable to load autonomous program '%s': %v", key, err)
			return NewPlayer(nil), fmt.Errorf("load program %s: %w", key, err)
		}
		data = append(data, chunk...)
	}
	return NewPlayer(data), nil
}

// Advance returns the instruction for the current tick and moves the cursor.
// Returns false once the program is exhausted or malformed; the caller must
// then stop all actuators.
func (p *Player) Advance() (inst.Instruction, bool) {
	if p.done {
		return inst.Instruction{}, false
	}

	if p.ticksIntoEntry == 0 && !p.enterEntry() {
		return inst.Instruction{}, false
	}

	current := p.current
	p.ticksIntoEntry++
	if p.ticksIntoEntry >= p.duration {
		p.ticksIntoEntry = 0
		p.entryIndex++
	}
	return current, true
}

func (p *Player) enterEntry() bool {
	offset := p.entryIndex * inst.EntrySize
	if offset >= len(p.data) {
		p.done = true
		return false
	}
	if offset+inst.EntrySize > len(p.data) {
		p.stop(fmt.Errorf("entry %d: %w: truncated", p.entryIndex, inst.ErrMalformed))
		return false
	}

	i, duration, err := inst.DecodeEntry(p.data[offset : offset+inst.EntrySize])
	if err != nil {
		p.stop(fmt.Errorf("entry %d: %w", p.entryIndex, err))
		return false
	}
	p.current = i
	p.duration = duration
	return true
}

func (p *Player) stop(err error) {
	p.done = true
	p.err = err
}

// Reset restarts playback from the first entry
func (p *Player) Reset() {
	p.entryIndex = 0
	p.ticksIntoEntry = 0
	p.current = inst.Instruction{}
	p.duration = 0
	p.done = false
	p.err = nil
}

// Done reports whether playback reached its terminal state
func (p *Player) Done() bool {
	return p.done
}

// Err returns the decode error that ended playback, if any
func (p *Player) Err() error {
	return p.err
}

// Cursor returns the current entry index and ticks spent in it
func (p *Player) Cursor() (entry int, ticks uint32) {
	return p.entryIndex, p.ticksIntoEntry
}

// Entries returns the number of complete entries in the underlying stream
func (p *Player) Entries() int {
	return len(p.data) / inst.EntrySize
}
