// Package jsonfile implements the default task Store: the whole collection
// kept as one pretty-printed JSON array, rewritten on every save.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/taskman/pkg/types"
)

// Store reads and writes a task collection as a JSON file.
type Store struct {
	path   string
	strict bool
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStrict makes Load return an error for unreadable or unparsable files
// instead of falling back to an empty collection.
func WithStrict(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithLogger sets the logger that receives lenient-recovery warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a Store backed by the file at path. The file need not exist.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the collection. A missing file or a JSON null is an empty
// collection. Read and parse failures are warnings unless the store is strict.
func (s *Store) Load() ([]types.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []types.Task{}, nil
		}
		return s.recover(fmt.Errorf("reading %s: %w", s.path, err))
	}

	var tasks []types.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return s.recover(fmt.Errorf("parsing %s: %w: %w", s.path, types.ErrCorruptData, err))
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return tasks, nil
}

// recover applies the lenient policy: prior data may be masked by a corrupt
// file, so the failure is always logged.
func (s *Store) recover(err error) ([]types.Task, error) {
	if s.strict {
		return nil, err
	}
	s.logger.Printf("warning: %v; starting with an empty task list", err)
	return []types.Task{}, nil
}

// Save writes tasks as an indented JSON array, replacing the file atomically.
func (s *Store) Save(tasks []types.Task) error {
	if tasks == nil {
		tasks = []types.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return writeAtomic(s.path, data)
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}

// writeAtomic writes data using the temp-file, fsync, rename pattern so a
// crash never leaves a half-written task file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tasks-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing tasks: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
