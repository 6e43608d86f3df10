package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

// FileExtension of programs stored by FileStorage
const FileExtension = ".auton"

// FileStorage stores one program per file in a directory, like the SD card
// of the robot brain. Writes are atomic, a partially written program is never
// visible to readers.
type FileStorage struct {
	Dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{Dir: dir}
}

// ValidateKey checks that key can be used as a program name
func ValidateKey(key string) error {
	if len(key) == 0 || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: '%s'", ErrInvalidKey, key)
	}
	return nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.Dir, key+FileExtension)
}

func (s *FileStorage) Init() error {
	return os.MkdirAll(s.Dir, 0755)
}

func (s *FileStorage) Write(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return atomic.WriteFile(s.path(key), bytes.NewReader(data))
}

func (s *FileStorage) Read(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", key, ErrNotFound)
	}
	return data, err
}

func (s *FileStorage) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStorage) List() ([]ProgramInfo, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result []ProgramInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		result = append(result, ProgramInfo{
			Key:     strings.TrimSuffix(entry.Name(), FileExtension),
			Size:    int(info.Size()),
			Updated: info.ModTime(),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}
