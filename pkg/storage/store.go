package storage

import (
	"errors"
	"io"
	"strings"
)

// Storage errors.
var (
	ErrNotFound    = errors.New("blob not found")
	ErrExists      = errors.New("blob already exists")
	ErrInvalidName = errors.New("invalid blob name")
	ErrClosed      = errors.New("blob writer closed")
)

// Storage is a named-blob store.
// Implementations must be safe for concurrent access.
type Storage interface {
	// Open opens a blob for reading.
	// Returns ErrNotFound if the blob does not exist.
	Open(name string) (io.ReadCloser, error)

	// Create opens a blob for writing, truncating any existing content.
	// The content becomes visible once the writer is closed.
	Create(name string) (io.WriteCloser, error)

	// Remove deletes a blob.
	// Returns ErrNotFound if the blob does not exist.
	Remove(name string) error

	// Rename moves a blob to a new name.
	// Returns ErrNotFound if oldName does not exist and ErrExists if
	// newName is already taken.
	Rename(oldName, newName string) error
}

// cleanName validates a blob name and strips the leading slash.
func cleanName(name string) (string, error) {
	trimmed := strings.TrimPrefix(name, "/")
	if trimmed == "" {
		return "", ErrInvalidName
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidName
		}
	}
	return trimmed, nil
}
