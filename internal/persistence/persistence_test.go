package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	programA = []byte{0x2d, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05}
	programB = []byte{0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
)

func storages(t *testing.T) map[string]Persistence {
	dir := t.TempDir()
	db := NewPersistence(filepath.Join(dir, "db", "brain.db"))
	require.NoError(t, db.Init())
	files := NewFileStorage(filepath.Join(dir, "programs"))
	require.NoError(t, files.Init())

	return map[string]Persistence{
		"bbolt": db,
		"file":  files,
	}
}

func TestPersistence_WriteRead(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			// GIVEN
			err := p.Write("skills", programA)
			require.NoError(t, err)

			// WHEN
			data, err := p.Read("skills")

			// THEN
			assert.NoError(t, err)
			assert.Equal(t, programA, data)
		})
	}
}

func TestPersistence_Overwrite(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			// GIVEN
			require.NoError(t, p.Write("match", programA))

			// WHEN
			require.NoError(t, p.Write("match", programB))

			// THEN
			data, err := p.Read("match")
			assert.NoError(t, err)
			assert.Equal(t, programB, data)
		})
	}
}

func TestPersistence_ReadMissing(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			// WHEN
			data, err := p.Read("missing")

			// THEN
			assert.Nil(t, data)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestPersistence_Delete(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			// GIVEN
			require.NoError(t, p.Write("old", programA))

			// WHEN
			err := p.Delete("old")
			assert.NoError(t, err)

			// THEN
			_, err = p.Read("old")
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting twice is fine
			assert.NoError(t, p.Delete("old"))
		})
	}
}

func TestPersistence_List(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			// GIVEN
			require.NoError(t, p.Write("b", programB))
			require.NoError(t, p.Write("a", append(programA, programB...)))

			// WHEN
			infos, err := p.List()

			// THEN
			require.NoError(t, err)
			require.Len(t, infos, 2)
			assert.Equal(t, "a", infos[0].Key)
			assert.Equal(t, 18, infos[0].Size)
			assert.Equal(t, "b", infos[1].Key)
			assert.Equal(t, 9, infos[1].Size)
			assert.False(t, infos[0].Updated.IsZero())
		})
	}
}

func TestPersistence_InvalidKey(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "..", "a/b"} {
				err := p.Write(key, programA)
				assert.ErrorIs(t, err, ErrInvalidKey)
			}
		})
	}
}

func TestPersistence_ListEmpty(t *testing.T) {
	for name, p := range storages(t) {
		t.Run(name, func(t *testing.T) {
			infos, err := p.List()
			assert.NoError(t, err)
			assert.Empty(t, infos)
		})
	}
}
