// Package registry owns the in-memory task collection and its mutating
// operations. Task IDs always form the sequence 1..N in list order; every
// successful mutation is followed by a full save through the Store.
package registry

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskman/pkg/types"
)

// Registry holds the ordered task collection for the process lifetime.
type Registry struct {
	store  types.Store
	tasks  []types.Task
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger for load-time warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New loads the collection from store once and returns a Registry that owns
// it. Stored IDs that do not form 1..N are renumbered by position.
func New(store types.Store, opts ...Option) (*Registry, error) {
	r := &Registry{
		store:  store,
		now:    time.Now,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}

	tasks, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	if types.Renumber(tasks) {
		r.logger.Printf("warning: stored task IDs were not sequential; renumbered 1..%d", len(tasks))
	}
	r.tasks = tasks
	return r, nil
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Tasks returns a copy of the collection in ID order.
func (r *Registry) Tasks() []types.Task {
	out := make([]types.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Create appends a task with the trimmed description and ID N+1.
func (r *Registry) Create(description string) (types.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return types.Task{}, types.ErrEmptyDescription
	}

	task := types.NewTask(len(r.tasks)+1, description, r.now())
	r.tasks = append(r.tasks, task)
	return task, r.persist()
}

// Complete marks the task with the given ID as done. Completing a task that
// is already done succeeds and saves again.
func (r *Registry) Complete(id int) error {
	i := r.indexOf(id)
	if i < 0 {
		return types.ErrNotFound
	}
	r.tasks[i].MarkDone()
	return r.persist()
}

// Delete removes the task with the given ID and renumbers the survivors.
func (r *Registry) Delete(id int) error {
	i := r.indexOf(id)
	if i < 0 {
		return types.ErrNotFound
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	types.Renumber(r.tasks)
	return r.persist()
}

// DeleteAll empties the collection. It succeeds on an empty collection too;
// only a save failure is reported.
func (r *Registry) DeleteAll() error {
	r.tasks = []types.Task{}
	return r.persist()
}

func (r *Registry) indexOf(id int) int {
	for i, t := range r.tasks {
		if t.TaskID == id {
			return i
		}
	}
	return -1
}

// persist saves the full collection. The in-memory mutation is never rolled
// back; callers see ErrSaveFailed and may carry on.
func (r *Registry) persist() error {
	if err := r.store.Save(r.Tasks()); err != nil {
		return fmt.Errorf("%w: %w", types.ErrSaveFailed, err)
	}
	return nil
}
