package types

import "time"

// TimestampLayout is the layout of Task.CreatedAt, local time.
const TimestampLayout = "2006-01-02 15:04:05"

// Task is one to-do item. TaskID is the display position of the task in its
// collection, not a permanent identifier: deletions shift later IDs down.
type Task struct {
	TaskID      int    `json:"taskId"`
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
	CreatedAt   string `json:"timestamp"`
}

// NewTask builds a pending task created at now.
func NewTask(id int, description string, now time.Time) Task {
	return Task{
		TaskID:      id,
		Description: description,
		CreatedAt:   now.Format(TimestampLayout),
	}
}

// MarkDone sets the task as completed. There is no way back.
func (t *Task) MarkDone() {
	t.IsDone = true
}

// Renumber assigns TaskID = position (1-based) to every task in order and
// reports whether any ID changed.
func Renumber(tasks []Task) bool {
	changed := false
	for i := range tasks {
		if tasks[i].TaskID != i+1 {
			tasks[i].TaskID = i + 1
			changed = true
		}
	}
	return changed
}
