package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewDotCommand implements `sufftree dot`.
func NewDotCommand() *cobra.Command {
	opts := &buildOptions{}

	var outPath string

	cmd := &cobra.Command{
		Use:   "dot <input.fasta[.gz|.lz4]>...",
		Short: "Construct a suffix tree and render it as Graphviz",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd, args, opts, outPath)
		},
	}

	addCommonFlags(cmd, opts)
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write Graphviz output here instead of stdout")

	return cmd
}

func runDot(cmd *cobra.Command, paths []string, opts *buildOptions, outPath string) error {
	a, logger, _, err := loadOptions(cmd, opts)
	if err != nil {
		return err
	}

	tree, err := buildTree(context.Background(), a, paths, logger, nil)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if outPath != "" {
		f, createErr := os.Create(outPath) //nolint:gosec // operator-supplied CLI path.
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer f.Close()

		w = f
	}

	if err := tree.Dot(w); err != nil {
		return fmt.Errorf("render dot: %w", err)
	}

	return nil
}
