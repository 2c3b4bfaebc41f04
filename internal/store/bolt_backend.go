package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltFileName = "astrodaily.db"

var bucketEntries = []byte("entries")

// BoltBackend keeps all entries in a single BoltDB file.
// Each write is one transaction, so entries are never partially written.
type BoltBackend struct {
	db   *bolt.DB
	path string
}

// NewBoltBackend opens (or creates) the database inside dir
func NewBoltBackend(dir string) (*BoltBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, boltFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltBackend{db: db, path: dbPath}, nil
}

func (b *BoltBackend) Read(name string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketEntries).Get([]byte(name))
		if v == nil {
			return fs.ErrNotExist
		}
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	return data, err
}

func (b *BoltBackend) Size(name string) (int64, error) {
	var size int64
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketEntries).Get([]byte(name))
		if v == nil {
			return fs.ErrNotExist
		}
		size = int64(len(v))
		return nil
	})
	return size, err
}

func (b *BoltBackend) Write(name string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(name), data)
	})
}

func (b *BoltBackend) Remove(name string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Delete([]byte(name))
	})
}

func (b *BoltBackend) List() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (b *BoltBackend) Location() string { return b.path }

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
