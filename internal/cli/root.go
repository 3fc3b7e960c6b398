// Package cli implements the taskman command-line interface: the interactive
// menu as the default action plus one-shot subcommands over the same
// registry.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskman/internal/menu"
	"github.com/mesh-intelligence/taskman/pkg/taskman"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	strict    bool
	jsonMode  bool
}

// app carries the state shared by one command tree.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "taskman" command with global flags and
// all subcommands registered. Run without a subcommand it starts the menu.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "taskman",
		Short:   "A small persistent task list",
		Long:    "taskman keeps a numbered task list in a JSON file (or SQLite database)\nand edits it through an interactive menu or one-shot subcommands.",
		Version: taskman.Version,
		Args:    cobra.NoArgs,
		RunE:    a.runMenu,
		// Errors are printed once by Execute with the right exit code.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the task file (default: current directory)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "storage backend: json or sqlite (default: json)")
	root.PersistentFlags().BoolVar(&a.flags.strict, "strict", false, "fail instead of starting empty when the task file is corrupt")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(a.newMenuCmd())
	root.AddCommand(a.newAddCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newDoneCmd())
	root.AddCommand(a.newDeleteCmd())
	root.AddCommand(a.newClearCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "taskman:", err)
	}
	return exitCode(err)
}

func (a *app) newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE:  a.runMenu,
	}
}

func (a *app) runMenu(cmd *cobra.Command, args []string) error {
	reg, closeStore, err := a.openRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	m := menu.New(reg, cmd.InOrStdin(), cmd.OutOrStdout(), menu.WithLogger(a.logger(cmd)))
	if err := m.Run(); err != nil {
		return sysError(fmt.Errorf("read input: %w", err))
	}
	return nil
}

// logger returns the warning logger for cmd, writing to its stderr.
func (a *app) logger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "taskman: ", 0)
}

// exitError attaches an exit code to an error returned from a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps a command error to a process exit code. Errors without an
// attached code come from cobra itself (bad flags, wrong argument counts) and
// are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
