package types

import "errors"

// Store persists a whole task collection. Implementations hold no long-lived
// reference to the slices they are given or return.
type Store interface {
	// Load reads the full collection. A missing backing file yields an
	// empty collection and no error.
	Load() ([]Task, error)

	// Save overwrites the backing file with tasks.
	Save(tasks []Task) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Storage errors.
var (
	ErrCorruptData = errors.New("stored task data is corrupt")
	ErrSaveFailed  = errors.New("saving tasks failed")
	ErrStoreClosed = errors.New("store is closed")
)

// Registry operation errors.
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrNotFound         = errors.New("task not found")
	ErrInvalidID        = errors.New("invalid task ID")
)
