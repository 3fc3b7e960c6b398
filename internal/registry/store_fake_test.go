package registry

import (
	"errors"

	"github.com/mesh-intelligence/taskman/pkg/types"
)

var errDiskFull = errors.New("disk full")

// fakeStore records saves and can be told to fail them.
type fakeStore struct {
	initial []types.Task
	loadErr error
	saveErr error
	saves   [][]types.Task
}

func (f *fakeStore) Load() ([]types.Task, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]types.Task, len(f.initial))
	copy(out, f.initial)
	return out, nil
}

func (f *fakeStore) Save(tasks []types.Task) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := make([]types.Task, len(tasks))
	copy(cp, tasks)
	f.saves = append(f.saves, cp)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// last returns the most recently saved collection.
func (f *fakeStore) last() []types.Task {
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}
