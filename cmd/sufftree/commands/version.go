package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basepair-labs/sufftree/pkg/version"
)

// NewVersionCommand implements `sufftree version`.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String()) //nolint:errcheck // best-effort CLI status line.
		},
	}
}
