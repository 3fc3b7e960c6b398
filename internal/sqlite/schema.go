package sqlite

// createTasks is the only table. position is the task's display ID; row_id
// is a UUID v7 minted on every save and carries no meaning across saves.
const createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    row_id TEXT PRIMARY KEY,
    position INTEGER NOT NULL UNIQUE,
    description TEXT NOT NULL,
    done INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

const (
	selectTasks = `SELECT position, description, done, created_at FROM tasks ORDER BY position`
	deleteTasks = `DELETE FROM tasks`
	insertTask  = `INSERT INTO tasks (row_id, position, description, done, created_at) VALUES (?, ?, ?, ?, ?)`
)
