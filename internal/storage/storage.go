// Package storage keeps uploaded resume files on disk under opaque ids.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned for ids that are unknown or point outside the
// storage directory.
var ErrNotFound = errors.New("stored file not found")

// Store is a flat directory of files addressed by generated ids.
type Store struct {
	dir string
}

// New creates the storage directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data under a fresh id that keeps the original extension.
func (s *Store) Save(originalName string, data []byte) (string, error) {
	id := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))

	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0o644); err != nil {
		return "", fmt.Errorf("store %q: %w", originalName, err)
	}

	return id, nil
}

// Read returns the content stored under id.
func (s *Store) Read(id string) ([]byte, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read stored file %q: %w", id, err)
	}

	return data, nil
}

// Exists reports whether id resolves to a stored file.
func (s *Store) Exists(id string) bool {
	path, err := s.resolve(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes the file stored under id. Deleting an unknown id is an
// error so callers notice stale references.
func (s *Store) Delete(id string) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("delete stored file %q: %w", id, err)
	}

	return nil
}

// Location returns the on-disk path for id without touching the file.
func (s *Store) Location(id string) (string, error) {
	return s.resolve(id)
}

// resolve rejects ids that would escape the storage directory.
func (s *Store) resolve(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return "", fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return filepath.Join(s.dir, id), nil
}
