package models

import "errors"

// Error taxonomy shared by the store, the services and the HTTP layer.
// Callers match with errors.Is; every layer wraps with context.
var (
	// ErrValidation marks bad caller input.
	ErrValidation = errors.New("validation error")
	// ErrUpstream marks an unavailable or misbehaving weather source.
	ErrUpstream = errors.New("upstream error")
	// ErrNotFound marks an unknown stored name.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks an I/O failure of the backing medium.
	ErrStorage = errors.New("storage error")
)
