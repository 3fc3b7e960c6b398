// Package sqlite implements a task Store on a single SQLite database file,
// an alternative to the JSON file for users who want to query their tasks
// with standard SQLite tooling.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskman/pkg/types"
)

// Store implements types.Store. The database is opened lazily so that a
// missing file loads as an empty collection without being created.
type Store struct {
	path   string
	strict bool
	logger *log.Logger
	db     *sql.DB
	closed bool

	// unreadable is set when a lenient Load gave up on the file. The next
	// Save moves it to path+CorruptSuffix before writing a fresh database.
	unreadable bool
}

// CorruptSuffix is appended to an unreadable database file moved aside by Save.
const CorruptSuffix = ".corrupt"

// Option configures a Store.
type Option func(*Store)

// WithStrict makes Load return an error when the database cannot be read.
func WithStrict(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithLogger sets the logger that receives lenient-recovery warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open returns a Store for the database at path.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all tasks ordered by position.
func (s *Store) Load() ([]types.Task, error) {
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return []types.Task{}, nil
	}

	tasks, err := s.load()
	if err != nil {
		if s.strict {
			return nil, fmt.Errorf("loading %s: %w: %w", s.path, types.ErrCorruptData, err)
		}
		s.logger.Printf("warning: loading %s: %v; starting with an empty task list", s.path, err)
		s.unreadable = true
		return []types.Task{}, nil
	}
	return tasks, nil
}

func (s *Store) load() ([]types.Task, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(selectTasks)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []types.Task{}
	for rows.Next() {
		var t types.Task
		var done int
		if err := rows.Scan(&t.TaskID, &t.Description, &done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.IsDone = done != 0
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Save replaces every row with tasks in a single transaction.
func (s *Store) Save(tasks []types.Task) error {
	if s.closed {
		return types.ErrStoreClosed
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}
	if s.unreadable {
		if err := s.moveAside(); err != nil {
			return err
		}
	}
	db, err := s.open()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteTasks); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for _, t := range tasks {
		done := 0
		if t.IsDone {
			done = 1
		}
		if _, err := tx.Exec(insertTask, generateUUID(), t.TaskID, t.Description, done, t.CreatedAt); err != nil {
			return fmt.Errorf("insert task %d: %w", t.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// moveAside drops the handle on the unreadable file and renames it so Save
// starts a new database in its place.
func (s *Store) moveAside() error {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	dest := s.path + CorruptSuffix
	if err := os.Rename(s.path, dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("moving aside %s: %w", s.path, err)
	}
	s.unreadable = false
	s.logger.Printf("warning: moved unreadable %s to %s", s.path, dest)
	return nil
}

// open connects on first use and applies the schema.
func (s *Store) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	if _, err := db.Exec(createTasks); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s.db = db
	return db, nil
}

// generateUUID generates a new UUID v7 for row keys.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
