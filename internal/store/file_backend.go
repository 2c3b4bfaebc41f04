package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend stores each entry as a file in one directory.
// Writes go to a temp file in the same directory and are renamed into place.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed and returns a backend rooted there
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name)
}

func (b *FileBackend) Read(name string) ([]byte, error) {
	return os.ReadFile(b.path(name))
}

func (b *FileBackend) Size(name string) (int64, error) {
	info, err := os.Stat(b.path(name))
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", name)
	}
	return info.Size(), nil
}

func (b *FileBackend) Write(name string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, ".tmp-"+name+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, b.path(name)); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (b *FileBackend) Remove(name string) error {
	err := os.RemoveAll(b.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every entry in the directory, including stray temp files.
// A missing directory lists as empty.
func (b *FileBackend) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (b *FileBackend) Location() string { return b.dir }

func (b *FileBackend) Close() error { return nil }
