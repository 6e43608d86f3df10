package inst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	assert.Equal(t, [Size]byte{0xFF, 0x80, 0, 0, 0}, Encode(Instruction{TargetAngle: -1}))
	assert.Equal(t, [Size]byte{0, 0, 0x40, 0, 0}, Encode(Instruction{TargetPosition: 1}))
	assert.Equal(t, [Size]byte{0, 0, 0x20, 0, 0}, Encode(Instruction{BeltActive: true}))
	assert.Equal(t, [Size]byte{0, 0, 0x10, 0, 0}, Encode(Instruction{BeltUp: true}))
	assert.Equal(t, [Size]byte{0, 0, 0x08, 0, 0}, Encode(Instruction{SolenoidActive: true}))
	assert.Equal(t, [Size]byte{0, 0, 0, 0, 0x10}, Encode(Instruction{Thrust: 1}))
	assert.Equal(t, [Size]byte{0, 0, 0x07, 0xFF, 0xF0}, Encode(Instruction{Thrust: -1}))
}

func TestRoundTrip_AllAngles(t *testing.T) {
	for angle := MinAngle; angle <= MaxAngle; angle++ {
		// GIVEN
		expected := Instruction{TargetAngle: int16(angle), TargetPosition: int16(-angle / 2), Thrust: int16(angle * 66)}

		// WHEN
		packed := Encode(expected)
		actual, err := Decode(packed[:])

		// THEN
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
}

func TestRoundTrip_AllPositions(t *testing.T) {
	for position := MinPosition; position <= MaxPosition; position++ {
		expected := Instruction{TargetPosition: int16(position), BeltActive: position%2 == 0, BeltUp: position%3 == 0}
		packed := Encode(expected)
		actual, err := Decode(packed[:])
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
}

func TestRoundTrip_Thrust(t *testing.T) {
	for thrust := MinThrust; thrust <= MaxThrust; thrust += 7 {
		expected := Instruction{Thrust: int16(thrust), SolenoidActive: thrust < 0}
		packed := Encode(expected)
		actual, err := Decode(packed[:])
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
	for _, thrust := range []int16{MinThrust, MaxThrust, 0} {
		expected := Instruction{Thrust: thrust}
		packed := Encode(expected)
		actual, err := Decode(packed[:])
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
}

func TestDecode_WrongSize(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode(make([]byte, Size+1))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_PaddingSet(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 0, 0x01})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_OutOfDeclaredRange(t *testing.T) {
	// GIVEN
	packed := Encode(Instruction{TargetAngle: 200})

	// WHEN
	_, err := Decode(packed[:])

	// THEN
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEntry_RoundTrip(t *testing.T) {
	// GIVEN
	expected := Instruction{TargetAngle: -90, TargetPosition: 120, BeltActive: true, Thrust: 2048}

	// WHEN
	packed := EncodeEntry(expected, 70000)
	actual, duration, err := DecodeEntry(packed[:])

	// THEN
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	assert.Equal(t, uint32(70000), duration)
	assert.Equal(t, []byte{0, 1, 0x11, 0x70}, packed[Size:])
}

func TestDecodeEntry_ZeroDuration(t *testing.T) {
	packed := EncodeEntry(Instruction{}, 0)
	_, _, err := DecodeEntry(packed[:])
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeEntry_WrongSize(t *testing.T) {
	_, _, err := DecodeEntry(make([]byte, Size))
	assert.ErrorIs(t, err, ErrMalformed)
}
