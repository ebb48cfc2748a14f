package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no object exists for a storage key.
var ErrNotFound = errors.New("storage: object not found")

// Reader maps storage keys to raw object bytes. Implementations own
// retry and timeout policy; the engine propagates failures as fatal.
type Reader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// Dir serves objects from a local directory, with keys as
// slash-separated relative paths.
type Dir struct {
	root string
}

// NewDir creates a directory-backed reader rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Read returns the file contents for key.
func (d *Dir) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// Memory serves objects from an in-memory map. Useful for tests and
// pre-staged combines.
type Memory struct {
	objects map[string][]byte
}

// NewMemory creates a map-backed reader. The map is used as-is.
func NewMemory(objects map[string][]byte) *Memory {
	if objects == nil {
		objects = make(map[string][]byte)
	}
	return &Memory{objects: objects}
}

// Put stores an object under key.
func (m *Memory) Put(key string, data []byte) {
	m.objects[key] = data
}

// Read returns the object stored under key.
func (m *Memory) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, nil
}
