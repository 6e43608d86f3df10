package ui

import (
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestTickLog_FlushWritesInOrder(t *testing.T) {
	// GIVEN
	var written []TickLogEntry
	log := NewTickLogWithSink(func(entry TickLogEntry) {
		written = append(written, entry)
	})
	log.Info("first %d", 1)
	log.Error("second")

	// WHEN
	dropped := log.Flush()

	// THEN
	assert.Equal(t, 0, dropped)
	assert.Equal(t, []TickLogEntry{
		{Level: LevelInfo, Message: "first 1"},
		{Level: LevelError, Message: "second"},
	}, written)
	assert.Equal(t, 0, log.Len())
	assert.Equal(t, uint64(2), log.Written())
}

func TestTickLog_DropsBeyondCapacity(t *testing.T) {
	// GIVEN
	var written []TickLogEntry
	log := NewTickLogWithSink(func(entry TickLogEntry) {
		written = append(written, entry)
	})

	// WHEN
	for i := 0; i < TickLogCapacity+5; i++ {
		log.Warning("message %d", i)
	}
	dropped := log.Flush()

	// THEN
	assert.Equal(t, 5, dropped)
	// buffered entries plus the drop notice
	assert.Len(t, written, TickLogCapacity+1)
	assert.Equal(t, "5 log messages dropped", written[TickLogCapacity].Message)

	// WHEN
	dropped = log.Flush()

	// THEN
	assert.Equal(t, 0, dropped)
}

func ExampleTickLog() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	log := NewTickLog()
	log.Warning("rotation sensor %d unavailable", 3)
	log.Flush()
	// Output:
	// WARNING: rotation sensor 3 unavailable
}
