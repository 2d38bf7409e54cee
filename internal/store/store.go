// Package store defines the process-local keyed store the autosave path
// writes to. Backends live in the sub-packages.
package store

import "errors"

var (
	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("store closed")
	// ErrCorrupt is returned by Get when the backing data cannot be parsed.
	// Backends recover from it on the next Set.
	ErrCorrupt = errors.New("store data corrupt")
)

// KeyValue is a flat byte-value store keyed by string.
// Get reports ok=false for a missing key; that is not an error.
type KeyValue interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
