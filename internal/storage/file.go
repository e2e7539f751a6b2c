package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileBackend stores one file per key under a directory
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend stores values under dir on fs, creating dir if needed
func NewFileBackend(fs afero.Fs, dir string) (*FileBackend, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat storage directory: %w", err)
	}
	if !exists {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &FileBackend{fs: fs, dir: dir}, nil
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

// GetItem reads the key's file, returning ErrNotFound when it does not exist
func (f *FileBackend) GetItem(key string) (string, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(data), nil
}

// SetItem writes through a temp file and rename so readers never see a partial value
func (f *FileBackend) SetItem(key, value string) error {
	target := f.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := f.fs.Rename(tmp, target); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the key's file. A missing file is not an error.
func (f *FileBackend) RemoveItem(key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}
