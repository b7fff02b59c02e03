// Package main provides the entry point for the sufftree CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/basepair-labs/sufftree/cmd/sufftree/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sufftree",
		Short: "Generalized suffix tree construction over DNA/RNA/protein sequences",
		Long: `sufftree builds a generalized suffix tree over a FASTA sequence using
Ukkonen's online construction algorithm.

Commands:
  build     Construct a tree from FASTA input and report size/timing
  dot       Construct a tree and render it as Graphviz
  stats     Construct a tree and report structural statistics
  bench     Construct a tree while sampling growth for a chart`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a sufftree config file (YAML)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-error output")

	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewDotCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewBenchCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
