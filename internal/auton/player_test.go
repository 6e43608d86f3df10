package auton

import (
	"errors"
	"testing"

	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/stretchr/testify/assert"
)

func collect(p *Player, max int) []inst.Instruction {
	var result []inst.Instruction
	for i := 0; i < max; i++ {
		instruction, ok := p.Advance()
		if !ok {
			break
		}
		result = append(result, instruction)
	}
	return result
}

func TestPlayer_YieldsEachEntryForItsDuration(t *testing.T) {
	// GIVEN
	player := NewProgramPlayer(Program{{instA, 5}, {instB, 3}})

	// WHEN
	yielded := collect(player, 100)

	// THEN
	expected := []inst.Instruction{instA, instA, instA, instA, instA, instB, instB, instB}
	assert.Equal(t, expected, yielded)
	assert.True(t, player.Done())
	assert.NoError(t, player.Err())

	_, ok := player.Advance()
	assert.False(t, ok)
}

func TestPlayer_Cursor(t *testing.T) {
	// GIVEN
	player := NewProgramPlayer(Program{{instA, 2}, {instB, 1}})

	// WHEN
	player.Advance()

	// THEN
	entry, ticks := player.Cursor()
	assert.Equal(t, 0, entry)
	assert.Equal(t, uint32(1), ticks)

	// WHEN
	player.Advance()

	// THEN
	entry, ticks = player.Cursor()
	assert.Equal(t, 1, entry)
	assert.Equal(t, uint32(0), ticks)
	assert.Equal(t, 2, player.Entries())
}

func TestPlayer_Empty(t *testing.T) {
	player := NewPlayer(nil)
	_, ok := player.Advance()
	assert.False(t, ok)
	assert.True(t, player.Done())
}

func TestPlayer_Reset(t *testing.T) {
	// GIVEN
	player := NewProgramPlayer(Program{{instA, 1}, {instB, 1}})
	collect(player, 10)

	// WHEN
	player.Reset()

	// THEN
	assert.False(t, player.Done())
	assert.Equal(t, []inst.Instruction{instA, instB}, collect(player, 10))
}

func TestPlayer_MalformedEntryStopsPlayback(t *testing.T) {
	// GIVEN
	data := Program{{instA, 2}, {instB, 2}}.Encode()
	// set padding bits of the second instruction
	data[inst.EntrySize+inst.Size-1] |= 0x01
	player := NewPlayer(data)

	// WHEN
	yielded := collect(player, 10)

	// THEN
	assert.Equal(t, []inst.Instruction{instA, instA}, yielded)
	assert.True(t, player.Done())
	assert.ErrorIs(t, player.Err(), inst.ErrMalformed)
}

func TestPlayer_TruncatedStreamStopsPlayback(t *testing.T) {
	// GIVEN
	data := Program{{instA, 1}, {instB, 1}}.Encode()
	player := NewPlayer(data[:len(data)-2])

	// WHEN
	yielded := collect(player, 10)

	// THEN
	assert.Equal(t, []inst.Instruction{instA}, yielded)
	assert.ErrorIs(t, player.Err(), inst.ErrMalformed)
}

type mapSource map[string][]byte

func (m mapSource) Read(key string) ([]byte, error) {
	data, ok := m[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func TestLoadPlayer_Concatenates(t *testing.T) {
	// GIVEN
	source := mapSource{
		"first":  Program{{instA, 1}}.Encode(),
		"second": Program{{instB, 2}}.Encode(),
	}

	// WHEN
	player, err := LoadPlayer(source, "first", "second")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []inst.Instruction{instA, instB, instB}, collect(player, 10))
}

func TestLoadPlayer_StorageUnavailable(t *testing.T) {
	// WHEN
	player, err := LoadPlayer(mapSource{}, "missing")

	// THEN
	assert.Error(t, err)
	_, ok := player.Advance()
	assert.False(t, ok)
}

func TestLoadPlayer_NilSource(t *testing.T) {
	player, err := LoadPlayer(nil, "any")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.True(t, player != nil)
	_, ok := player.Advance()
	assert.False(t, ok)
}
