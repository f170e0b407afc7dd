package storage

import (
	"bytes"
	"io"
	"sync"
)

// MemoryStore is an in-memory implementation of the Storage interface.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Open returns a reader over a copy of the blob.
func (s *MemoryStore) Open(name string) (io.ReadCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

// Create returns a writer that stores the blob on Close.
func (s *MemoryStore) Create(name string) (io.WriteCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return &bufferedWriter{commit: func(data []byte) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.blobs[key] = data
		return nil
	}}, nil
}

// Remove deletes the blob.
func (s *MemoryStore) Remove(name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[key]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, key)
	return nil
}

// Rename moves the blob to newName.
func (s *MemoryStore) Rename(oldName, newName string) error {
	from, err := cleanName(oldName)
	if err != nil {
		return err
	}
	to, err := cleanName(newName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[from]
	if !ok {
		return ErrNotFound
	}
	if _, taken := s.blobs[to]; taken {
		return ErrExists
	}
	delete(s.blobs, from)
	s.blobs[to] = data
	return nil
}

// Names returns the stored blob names with a leading slash.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		names = append(names, "/"+k)
	}
	return names
}

// bufferedWriter collects writes and hands the full content to commit on Close.
type bufferedWriter struct {
	buf    bytes.Buffer
	commit func([]byte) error
	closed bool
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

func (w *bufferedWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.commit(bytes.Clone(w.buf.Bytes()))
}

// Compile-time interface satisfaction check.
var _ Storage = (*MemoryStore)(nil)
