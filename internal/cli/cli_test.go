package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskman/internal/paths"
	"github.com/mesh-intelligence/taskman/pkg/types"
)

// testEnv is an isolated config and data directory pair.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")

	dir := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

// cmdResult holds the result of one taskman invocation.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// run executes taskman in-process with the env's directories and stdin.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))

	err := root.Execute()
	if err != nil {
		stderr.WriteString(err.Error())
	}
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode(err)}
}

// mustRun fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run("", args...)
	if res.ExitCode != 0 {
		e.t.Fatalf("taskman %v exited %d:\nstdout: %s\nstderr: %s", args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res
}

// storedTasks reads tasks.json straight from disk.
func (e *testEnv) storedTasks() []types.Task {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dataDir, types.JSONFileName))
	require.NoError(e.t, err)
	var tasks []types.Task
	require.NoError(e.t, json.Unmarshal(data, &tasks))
	return tasks
}

func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(content), 0o644))
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("add", "Buy", "milk")
	assert.Equal(t, "Created task #1\n", res.Stdout)
	env.mustRun("add", "Walk dog")
	env.mustRun("add", "Call mom")

	res = env.mustRun("done", "2")
	assert.Contains(t, res.Stdout, "Task #2 marked as done")

	res = env.mustRun("delete", "1")
	assert.Contains(t, res.Stdout, "Task #1 removed")

	tasks := env.storedTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].TaskID)
	assert.Equal(t, "Walk dog", tasks[0].Description)
	assert.True(t, tasks[0].IsDone)
	assert.Equal(t, 2, tasks[1].TaskID)
	assert.Equal(t, "Call mom", tasks[1].Description)

	res = env.mustRun("list")
	assert.Contains(t, res.Stdout, "1. [✔] Walk dog")
	assert.Contains(t, res.Stdout, "2. [○] Call mom")

	env.mustRun("clear", "--yes")
	assert.Empty(t, env.storedTasks())
	res = env.mustRun("list")
	assert.Equal(t, "Your task list is empty.\n", res.Stdout)
}

func TestUserErrors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "only task")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"blank description", []string{"add", "   "}, "description cannot be empty"},
		{"non-numeric id", []string{"done", "abc"}, "invalid task ID"},
		{"unknown id for done", []string{"done", "5"}, "task #5 not found"},
		{"unknown id for delete", []string{"delete", "0"}, "task #0 not found"},
		{"clear without confirmation", []string{"clear"}, "--yes"},
		{"missing argument", []string{"done"}, "accepts 1 arg"},
		{"unknown command", []string{"bogus"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run("", tt.args...)
			assert.Equal(t, exitUserError, res.ExitCode)
			assert.Contains(t, res.Stderr, tt.wantErr)
		})
	}

	tasks := env.storedTasks()
	require.Len(t, tasks, 1, "failed commands must not mutate")
	assert.False(t, tasks[0].IsDone)
}

func TestListJSON(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("list", "--json")
	assert.Equal(t, "[]\n", res.Stdout)

	res = env.mustRun("add", "Buy milk", "--json")
	var created types.Task
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &created))
	assert.Equal(t, 1, created.TaskID)

	res = env.mustRun("list", "--json")
	var tasks []types.Task
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &tasks))
	assert.Equal(t, []types.Task{created}, tasks)
}

func TestMenuIsDefaultCommand(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("1\nBuy milk\n3\n1\n2\n6\n")
	require.Equal(t, exitSuccess, res.ExitCode, res.Stderr)
	assert.Contains(t, res.Stdout, "TASK MANAGER - MAIN MENU")
	assert.Contains(t, res.Stdout, "1. [✔] Buy milk")
	assert.Contains(t, res.Stdout, "Thank you for using Task Manager!")

	res = env.run("6\n", "menu")
	assert.Equal(t, exitSuccess, res.ExitCode)
	assert.Len(t, env.storedTasks(), 1)
}

func TestSQLiteBackend(t *testing.T) {
	t.Run("selected by flag", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustRun("--backend", "sqlite", "add", "Buy milk")
		env.mustRun("--backend", "sqlite", "add", "Walk dog")
		env.mustRun("--backend", "sqlite", "delete", "1")

		_, err := os.Stat(filepath.Join(env.dataDir, types.SQLiteFileName))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(env.dataDir, types.JSONFileName))
		assert.True(t, os.IsNotExist(err))

		res := env.mustRun("--backend", "sqlite", "list")
		assert.Contains(t, res.Stdout, "1. [○] Walk dog")
	})

	t.Run("selected by config file", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: sqlite\n")
		env.mustRun("add", "Buy milk")

		_, err := os.Stat(filepath.Join(env.dataDir, types.SQLiteFileName))
		require.NoError(t, err)
	})

	t.Run("flag overrides config file", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: sqlite\n")
		env.mustRun("--backend", "json", "add", "Buy milk")
		assert.Len(t, env.storedTasks(), 1)
	})
}

func TestUnknownBackendIsSystemError(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("", "--backend", "postgres", "list")
	assert.Equal(t, exitSysError, res.ExitCode)
	assert.Contains(t, res.Stderr, "unknown backend")
}

func TestDataDirFromConfig(t *testing.T) {
	env := newTestEnv(t)
	other := filepath.Join(t.TempDir(), "elsewhere")
	env.writeConfig("data_dir: " + other + "\n")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config-dir", env.configDir, "add", "Buy milk"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(other, types.JSONFileName))
	assert.NoError(t, err)
}

func TestRelativeDataDirIsUnderConfigDir(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig("data_dir: tasks\n")
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config-dir", env.configDir, "add", "Buy milk"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(env.configDir, "tasks", types.JSONFileName))
	assert.NoError(t, err)
}

func TestCorruptTaskFile(t *testing.T) {
	setup := func(t *testing.T) *testEnv {
		env := newTestEnv(t)
		require.NoError(t, os.MkdirAll(env.dataDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(env.dataDir, types.JSONFileName), []byte("{not json"), 0o644))
		return env
	}

	t.Run("lenient starts empty with a warning", func(t *testing.T) {
		env := setup(t)
		res := env.run("", "list")
		assert.Equal(t, exitSuccess, res.ExitCode)
		assert.Equal(t, "Your task list is empty.\n", res.Stdout)
		assert.Contains(t, res.Stderr, "taskman: warning:")
	})

	t.Run("strict flag fails", func(t *testing.T) {
		env := setup(t)
		res := env.run("", "--strict", "list")
		assert.Equal(t, exitSysError, res.ExitCode)
		assert.Contains(t, res.Stderr, "corrupt")
	})

	t.Run("strict from config fails", func(t *testing.T) {
		env := setup(t)
		env.writeConfig("strict: true\n")
		res := env.run("", "list")
		assert.Equal(t, exitSysError, res.ExitCode)
	})
}

func TestSaveFailureIsWarning(t *testing.T) {
	env := newTestEnv(t)
	// A regular file where the data directory should be makes every save fail.
	require.NoError(t, os.WriteFile(env.dataDir, []byte("x"), 0o644))

	res := env.run("", "add", "Buy milk")
	assert.Equal(t, exitSuccess, res.ExitCode)
	assert.Equal(t, "Created task #1\n", res.Stdout)
	assert.Contains(t, res.Stderr, "saving tasks failed")
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("init", "--backend", "sqlite")
	configPath := filepath.Join(env.configDir, "config.yaml")
	assert.Contains(t, res.Stdout, "Wrote "+configPath)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "data_dir: "+env.dataDir)

	info, err := os.Stat(env.dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	res = env.mustRun("init")
	assert.Contains(t, res.Stdout, "Keeping existing")

	// The written config drives later commands.
	env.mustRun("add", "Buy milk")
	_, err = os.Stat(filepath.Join(env.dataDir, types.SQLiteFileName))
	assert.NoError(t, err)
}

func TestInitRejectsUnknownBackend(t *testing.T) {
	env := newTestEnv(t)
	res := env.run("", "init", "--backend", "mongo")
	assert.Equal(t, exitUserError, res.ExitCode)
	_, err := os.Stat(filepath.Join(env.configDir, "config.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.Stdout, "taskman v")
	assert.Contains(t, res.Stdout, modulePath)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(userError(types.ErrNotFound)))
	assert.Equal(t, exitSysError, exitCode(sysError(types.ErrCorruptData)))
	assert.Equal(t, exitUserError, exitCode(os.ErrInvalid))
}
