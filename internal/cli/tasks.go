package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskman/pkg/types"
)

func (a *app) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description...>",
		Short: "Create a task",
		Long:  "Create a task. All arguments are joined with spaces to form the description.",
		Example: `  taskman add Buy milk
  taskman add "Walk the dog" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeStore, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			task, err := reg.Create(strings.Join(args, " "))
			if errors.Is(err, types.ErrEmptyDescription) {
				return userError(err)
			}
			a.warnUnsaved(cmd, err)

			if a.flags.jsonMode {
				return writeJSON(cmd, task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", task.TaskID)
			return nil
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeStore, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			if a.flags.jsonMode {
				return writeJSON(cmd, reg.Tasks())
			}
			fmt.Fprintln(cmd.OutOrStdout(), reg.List())
			return nil
		},
	}
}

func (a *app) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			reg, closeStore, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			err = reg.Complete(id)
			if errors.Is(err, types.ErrNotFound) {
				return userError(fmt.Errorf("task #%d not found", id))
			}
			a.warnUnsaved(cmd, err)

			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d marked as done\n", id)
			return nil
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task; later tasks move up one ID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			reg, closeStore, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			err = reg.Delete(id)
			if errors.Is(err, types.ErrNotFound) {
				return userError(fmt.Errorf("task #%d not found", id))
			}
			a.warnUnsaved(cmd, err)

			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d removed\n", id)
			return nil
		},
	}
}

func (a *app) newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError(errors.New("refusing to remove all tasks without --yes"))
			}

			reg, closeStore, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			a.warnUnsaved(cmd, reg.DeleteAll())
			fmt.Fprintln(cmd.OutOrStdout(), "All tasks have been removed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removing every task")
	return cmd
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
