package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskman/pkg/taskman"
)

const modulePath = "github.com/mesh-intelligence/taskman"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskman version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskman v%s\nmodule: %s\n", taskman.Version, modulePath)
			return nil
		},
	}
}
