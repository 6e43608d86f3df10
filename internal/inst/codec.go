package inst

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Packed layout, MSB-first bit numbering over a 40 bit big-endian word:
//
//	bits  0-8   target angle     (9, signed, 1 degree)
//	bits  9-17  target position  (9, signed, 1 mm)
//	bit   18    belt active
//	bit   19    belt direction   (1 = up)
//	bit   20    solenoid active
//	bits 21-35  thrust           (15, signed, 1 mV)
//	bits 36-39  zero
const (
	// Size of one packed instruction in bytes
	Size = 5
	// EntrySize is a packed instruction followed by a big-endian uint32 duration
	EntrySize = Size + 4

	wordBits = Size * 8

	angleBits    = 9
	positionBits = 9
	thrustBits   = 15

	angleShift      = wordBits - angleBits
	positionShift   = angleShift - positionBits
	beltActiveShift = positionShift - 1
	beltUpShift     = beltActiveShift - 1
	solenoidShift   = beltUpShift - 1
	thrustShift     = solenoidShift - thrustBits

	paddingMask uint64 = 1<<thrustShift - 1
)

var ErrMalformed = errors.New("malformed instruction")

// Encode packs an instruction. Field values must be within their declared
// ranges, see Instruction.Validate.
func Encode(i Instruction) [Size]byte {
	var word uint64
	word |= packSigned(int64(i.TargetAngle), angleBits) << angleShift
	word |= packSigned(int64(i.TargetPosition), positionBits) << positionShift
	word |= packBool(i.BeltActive) << beltActiveShift
	word |= packBool(i.BeltUp) << beltUpShift
	word |= packBool(i.SolenoidActive) << solenoidShift
	word |= packSigned(int64(i.Thrust), thrustBits) << thrustShift

	var out [Size]byte
	for b := 0; b < Size; b++ {
		out[b] = byte(word >> (8 * (Size - 1 - b)))
	}
	return out
}

// Decode unpacks an instruction from exactly Size bytes
func Decode(data []byte) (Instruction, error) {
	if len(data) != Size {
		return Instruction{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformed, Size, len(data))
	}

	var word uint64
	for _, b := range data {
		word = word<<8 | uint64(b)
	}
	if word&paddingMask != 0 {
		return Instruction{}, fmt.Errorf("%w: padding bits set", ErrMalformed)
	}

	i := Instruction{
		TargetAngle:    int16(unpackSigned(word>>angleShift, angleBits)),
		TargetPosition: int16(unpackSigned(word>>positionShift, positionBits)),
		BeltActive:     word>>beltActiveShift&1 == 1,
		BeltUp:         word>>beltUpShift&1 == 1,
		SolenoidActive: word>>solenoidShift&1 == 1,
		Thrust:         int16(unpackSigned(word>>thrustShift, thrustBits)),
	}
	if err := i.Validate(); err != nil {
		return Instruction{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return i, nil
}

// EncodeEntry packs an instruction together with how many ticks it lasts
func EncodeEntry(i Instruction, duration uint32) [EntrySize]byte {
	var out [EntrySize]byte
	packed := Encode(i)
	copy(out[:Size], packed[:])
	binary.BigEndian.PutUint32(out[Size:], duration)
	return out
}

// DecodeEntry unpacks an instruction and its duration from exactly EntrySize bytes
func DecodeEntry(data []byte) (Instruction, uint32, error) {
	if len(data) != EntrySize {
		return Instruction{}, 0, fmt.Errorf("%w: expected %d byte entry, got %d", ErrMalformed, EntrySize, len(data))
	}
	i, err := Decode(data[:Size])
	if err != nil {
		return Instruction{}, 0, err
	}
	duration := binary.BigEndian.Uint32(data[Size:])
	if duration == 0 {
		return Instruction{}, 0, fmt.Errorf("%w: zero duration", ErrMalformed)
	}
	return i, duration, nil
}

func packSigned(v int64, bits uint) uint64 {
	return uint64(v) & (1<<bits - 1)
}

func unpackSigned(raw uint64, bits uint) int64 {
	v := int64(raw & (1<<bits - 1))
	if v&(1<<(bits-1)) != 0 {
		v -= 1 << bits
	}
	return v
}

func packBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
