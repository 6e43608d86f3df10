package ui

import (
	"fmt"
	"sync"
)

// TickLogCapacity is the number of entries a TickLog buffers between flushes
const TickLogCapacity = 32

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

type TickLogEntry struct {
	Level   Level
	Message string
}

// TickLog buffers messages emitted during a control tick, so the tick itself
// never blocks on terminal output. Entries beyond the capacity are dropped
// and counted. Flush is called at tick boundaries.
type TickLog struct {
	mu      sync.Mutex
	entries []TickLogEntry
	dropped int
	total   uint64

	sink func(TickLogEntry)
}

// NewTickLog creates a TickLog writing through the pterm helpers of this package
func NewTickLog() *TickLog {
	return NewTickLogWithSink(printEntry)
}

// NewTickLogWithSink creates a TickLog writing flushed entries to sink
func NewTickLogWithSink(sink func(TickLogEntry)) *TickLog {
	return &TickLog{
		entries: make([]TickLogEntry, 0, TickLogCapacity),
		sink:    sink,
	}
}

func (l *TickLog) Debug(format string, a ...interface{}) {
	l.add(LevelDebug, format, a...)
}

func (l *TickLog) Info(format string, a ...interface{}) {
	l.add(LevelInfo, format, a...)
}

func (l *TickLog) Warning(format string, a ...interface{}) {
	l.add(LevelWarning, format, a...)
}

func (l *TickLog) Error(format string, a ...interface{}) {
	l.add(LevelError, format, a...)
}

func (l *TickLog) add(level Level, format string, a ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= TickLogCapacity {
		l.dropped++
		return
	}
	l.entries = append(l.entries, TickLogEntry{Level: level, Message: fmt.Sprintf(format, a...)})
}

// Len returns the number of buffered entries
func (l *TickLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Flush writes all buffered entries to the sink and returns how many entries
// were dropped since the last flush.
func (l *TickLog) Flush() (dropped int) {
	l.mu.Lock()
	entries := make([]TickLogEntry, len(l.entries))
	copy(entries, l.entries)
	l.entries = l.entries[:0]
	dropped = l.dropped
	l.dropped = 0
	l.total += uint64(len(entries))
	l.mu.Unlock()

	for _, entry := range entries {
		l.sink(entry)
	}
	if dropped > 0 {
		l.sink(TickLogEntry{Level: LevelWarning, Message: fmt.Sprintf("%d log messages dropped", dropped)})
	}
	return dropped
}

// Written returns the total number of entries flushed so far
func (l *TickLog) Written() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

func printEntry(entry TickLogEntry) {
	switch entry.Level {
	case LevelDebug:
		Debug("%s", entry.Message)
	case LevelInfo:
		Info("%s", entry.Message)
	case LevelWarning:
		Warning("%s", entry.Message)
	default:
		Error("%s", entry.Message)
	}
}
