package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display rowdesk version, Go runtime and the database adapters compiled in.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rowdesk v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Built with %s\n", runtime.Version())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Adapters: %v\n", adapter.ListAdapters())
		},
	}
}
