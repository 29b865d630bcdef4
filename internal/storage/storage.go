// Package storage persists raw weather payloads under flat, case-sensitive names.
package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"weather-explorer/internal/models"
	"weather-explorer/pkg/logger"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// WeatherStore is the persistence contract shared by all backends.
//
// Put replaces any existing entry atomically (last write wins), List returns only
// fully published entries ordered by name, Get returns the exact bytes last written.
type WeatherStore interface {
	Put(ctx context.Context, name string, raw []byte) (models.StoredFile, error)
	List(ctx context.Context) ([]models.StoredFile, error)
	Get(ctx context.Context, name string) ([]byte, error)
	Backend() string
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
}

// New builds the store selected by opts.
func New(opts Options, l *logger.Logger) (WeatherStore, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Dir, l)
	case BackendMemory:
		return NewMemoryStore(l), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// ValidateName reports whether name can be used as a flat storage key.
// Names starting with a dot are reserved for in-flight temp files.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: name %q must not contain path separators", models.ErrValidation, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: name %q must not start with a dot", models.ErrValidation, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name %q contains a NUL byte", models.ErrValidation, name)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: file %q", models.ErrNotFound, name)
}

// nameLocks serializes writers of the same name. Entries are never removed; the
// namespace is bounded by the number of distinct stored names.
type nameLocks struct {
	m sync.Map
}

func (n *nameLocks) lock(name string) func() {
	v, _ := n.m.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
