package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bot-go-brr/brain/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketPrograms    = "programs"
	BucketProgramMeta = "programMeta"
)

var (
	ErrNotFound   = errors.New("program not found")
	ErrInvalidKey = errors.New("invalid program key")
)

// ProgramInfo describes a stored program
type ProgramInfo struct {
	Key     string    `json:"key"`
	Size    int       `json:"size"`
	Updated time.Time `json:"updated"`
}

// Persistence stores encoded autonomous programs by key
type Persistence interface {
	Init() error

	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Delete(key string) error
	List() ([]ProgramInfo, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Write stores the encoded program under the given key, replacing any previous one
func (p persistence) Write(key string, data []byte) (err error) {
	if err = ValidateKey(key); err != nil {
		return err
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	info, err := json.Marshal(ProgramInfo{
		Key:     key,
		Size:    len(data),
		Updated: time.Now(),
	})
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketPrograms))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(BucketProgramMeta))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		err = b.Put([]byte(key), data)
		if err != nil {
			return err
		}
		return meta.Put([]byte(key), info)
	})
}

// Read loads the encoded program stored under the given key
func (p persistence) Read(key string) ([]byte, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var data []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketPrograms))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid during the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return data, nil
}

func (p persistence) Delete(key string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketPrograms))
		if b == nil {
			// no program bucket yet
			return nil
		}
		if meta := tx.Bucket([]byte(BucketProgramMeta)); meta != nil {
			if err := meta.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return b.Delete([]byte(key))
	})
}

// List returns information about all stored programs, sorted by key
func (p persistence) List() ([]ProgramInfo, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var result []ProgramInfo
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketPrograms))
		if b == nil {
			return nil
		}
		meta := tx.Bucket([]byte(BucketProgramMeta))

		return b.ForEach(func(k, v []byte) error {
			info := ProgramInfo{Key: string(k), Size: len(v)}
			if meta != nil {
				if raw := meta.Get(k); raw != nil {
					err := json.Unmarshal(raw, &info)
					if err != nil {
						// metadata is informational only
						ui.Warning("Unable to unmarshal metadata of program %s: %v", k, err)
						info = ProgramInfo{Key: string(k), Size: len(v)}
					}
				}
			}
			result = append(result, info)
			return nil
		})
	})

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, err
}
