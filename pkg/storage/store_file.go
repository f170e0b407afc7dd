package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each blob as a file below a root directory.
type FileStore struct {
	mu   sync.Mutex
	root string
}

// NewFileStore creates a file store rooted at dir, creating the directory
// if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Root returns the directory holding the blobs.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) path(name string) (string, error) {
	key, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Open opens the blob file for reading.
func (s *FileStore) Open(name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create creates or truncates the blob file.
func (s *FileStore) Create(name string) (io.WriteCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
}

// Remove deletes the blob file.
func (s *FileStore) Remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// Rename moves the blob file. Unlike os.Rename it refuses to replace an
// existing target.
func (s *FileStore) Rename(oldName, newName string) error {
	from, err := s.path(oldName)
	if err != nil {
		return err
	}
	to, err := s.path(newName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Lstat(from); errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if _, err := os.Lstat(to); err == nil {
		return ErrExists
	}
	return os.Rename(from, to)
}

// Compile-time interface satisfaction check.
var _ Storage = (*FileStore)(nil)
