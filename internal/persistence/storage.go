package persistence

import (
	"errors"
	"fmt"
)

// Storage kinds selectable in the configuration
const (
	KindBolt = "bolt"
	KindFile = "file"
)

var ErrUnknownKind = errors.New("unknown storage kind")

// NewStorage creates the program storage of the given kind: a bbolt database
// at dbPath or one file per program in dir. An empty kind selects bbolt.
func NewStorage(kind string, dbPath string, dir string) (Persistence, error) {
	switch kind {
	case "", KindBolt:
		return NewPersistence(dbPath), nil
	case KindFile:
		if len(dir) == 0 {
			return nil, errors.New("file storage requires a directory")
		}
		return NewFileStorage(dir), nil
	default:
		return nil, fmt.Errorf("%w: '%s', expected '%s' or '%s'", ErrUnknownKind, kind, KindBolt, KindFile)
	}
}
