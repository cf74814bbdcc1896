package seedstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const seedFilePermissions = 0o600

// ErrNotFound indicates no seed blob has been persisted yet.
var ErrNotFound = errors.New("wallet seed file not found")

// Store is single-slot persistence for one encrypted wallet seed blob.
// Writing always overwrites the previous blob; there is no versioning.
// All operations are serialized through the store's mutex so a reader can
// never observe a half-written file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Write overwrites the seed file with blob unconditionally.
func (s *Store) Write(blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create seed directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, blob, seedFilePermissions); err != nil {
		return fmt.Errorf("failed to write seed file: %w", err)
	}
	return nil
}

// Read returns the raw contents of the seed file.
// Returns ErrNotFound if no blob has been written.
func (s *Store) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return blob, nil
}

// Exists reports whether a seed blob is present without reading it.
func (s *Store) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	return err == nil && info.Size() > 0
}
