// Package auton holds recorded or authored autonomous programs and replays
// them one instruction per control tick.
package auton

import (
	"fmt"
	"math"

	"github.com/bot-go-brr/brain/internal/inst"
)

// Entry is a run of identical instructions lasting Duration ticks (>= 1)
type Entry struct {
	Instruction inst.Instruction `json:"instruction"`
	Duration    uint32           `json:"duration"`
}

// Program is an ordered list of entries, append-only while recording
type Program []Entry

// Ticks returns the total duration of the program in ticks
func (p Program) Ticks() uint64 {
	var total uint64
	for _, entry := range p {
		total += uint64(entry.Duration)
	}
	return total
}

// Encode serializes every entry through the instruction codec
func (p Program) Encode() []byte {
	data := make([]byte, 0, len(p)*inst.EntrySize)
	for _, entry := range p {
		packed := inst.EncodeEntry(entry.Instruction, entry.Duration)
		data = append(data, packed[:]...)
	}
	return data
}

// Append adds a run to the program, merging it into the last entry if the
// instruction is identical. A merged entry never exceeds MaxUint32 ticks, the
// remainder starts a new entry.
func (p Program) Append(i inst.Instruction, duration uint32) Program {
	if duration == 0 {
		return p
	}
	if n := len(p); n > 0 && p[n-1].Instruction == i {
		room := math.MaxUint32 - p[n-1].Duration
		if duration <= room {
			p[n-1].Duration += duration
			return p
		}
		p[n-1].Duration = math.MaxUint32
		duration -= room
	}
	return append(p, Entry{Instruction: i, Duration: duration})
}

// DecodeProgram decodes a complete byte stream. Any malformed entry fails the whole program.
func DecodeProgram(data []byte) (Program, error) {
	if len(data)%inst.EntrySize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d byte entry size", inst.ErrMalformed, len(data), inst.EntrySize)
	}

	program := make(Program, 0, len(data)/inst.EntrySize)
	for offset := 0; offset < len(data); offset += inst.EntrySize {
		i, duration, err := inst.DecodeEntry(data[offset : offset+inst.EntrySize])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", offset/inst.EntrySize, err)
		}
		program = append(program, Entry{Instruction: i, Duration: duration})
	}
	return program, nil
}
