// Package commands implements CLI command handlers for the sufftree tool.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/basepair-labs/sufftree/internal/config"
	"github.com/basepair-labs/sufftree/internal/obslog"
	"github.com/basepair-labs/sufftree/internal/obsmetrics"
	"github.com/basepair-labs/sufftree/internal/seqio"
	"github.com/basepair-labs/sufftree/pkg/alphabet"
	"github.com/basepair-labs/sufftree/pkg/sufftree"
)

// ErrNoInput is returned when a command that requires at least one FASTA
// path is invoked with none.
var ErrNoInput = errors.New("at least one input path is required")

// buildOptions are the flags shared by build/dot/stats/bench, since all
// four commands start by constructing the same tree from the same inputs.
type buildOptions struct {
	alphabetName string
	customPath   string
	metricsAddr  string
	timeout      time.Duration
}

func addCommonFlags(cmd *cobra.Command, opts *buildOptions) {
	cmd.Flags().StringVar(&opts.alphabetName, "alphabet", "", "dna|dna-n|protein|custom (overrides config)")
	cmd.Flags().StringVar(&opts.customPath, "alphabet-file", "", "path to a custom alphabet JSON document")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics at host:port for the build's duration (used by the build command only)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort the build if it does not finish within this duration (used by the build command only)")
}

// loadOptions resolves config + CLI overrides into a usable alphabet and
// logger, applying the same precedence build/dot/stats/bench all need:
// CLI flags beat the config file, which beats built-in defaults.
func loadOptions(cmd *cobra.Command, opts *buildOptions) (alphabet.Alphabet, *slog.Logger, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config") //nolint:errcheck // cobra flag lookup, always registered on root.

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	if opts.alphabetName != "" {
		cfg.Alphabet.Name = opts.alphabetName
	}

	if opts.customPath != "" {
		cfg.Alphabet.CustomPath = opts.customPath
	}

	if opts.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metricsAddr
	}

	a, err := config.ResolveAlphabet(cfg.Alphabet)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve alphabet: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose") //nolint:errcheck // cobra flag lookup, always registered on root.
	quiet, _ := cmd.Flags().GetBool("quiet")     //nolint:errcheck // cobra flag lookup, always registered on root.

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	if quiet {
		level = "error"
	}

	logger := obslog.New(os.Stderr, level, cfg.Logging.Format)

	return a, logger, cfg, nil
}

// buildTree streams every input path through internal/seqio, appending each
// record's sequence (uppercased — the tree's alphabet does not normalize
// case, per the core's documented open question) in order into a single
// tree, then terminates it. Malformed records (no sequence data) are
// logged and skipped rather than aborting the whole build.
func buildTree(ctx context.Context, a alphabet.Alphabet, paths []string, logger *slog.Logger, metrics *obsmetrics.Recorder) (*sufftree.Tree, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	tree := sufftree.NewTree(a)

	recordIndex := 0
	prevGrowCount := tree.MapStats().GrowCount
	prevNodeCount := tree.NodeCount()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build canceled: %w", err)
		}

		if err := appendFile(ctx, tree, path, &recordIndex, &prevGrowCount, &prevNodeCount, logger, metrics); err != nil {
			return nil, err
		}
	}

	if err := tree.Terminate(); err != nil {
		return nil, fmt.Errorf("terminate tree: %w", err)
	}

	return tree, nil
}

func appendFile(ctx context.Context, tree *sufftree.Tree, path string, recordIndex, prevGrowCount, prevNodeCount *int, logger *slog.Logger, metrics *obsmetrics.Recorder) error {
	rc, err := seqio.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer rc.Close()

	sc := seqio.NewScanner(rc)

	for sc.Next() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build canceled: %w", err)
		}

		seq := sc.Sequence()
		if len(seq) == 0 {
			obslog.LogSkippedRecord(logger, *recordIndex, seqio.ErrEmptyRecord.Error())
			*recordIndex++

			continue
		}

		upper := bytes.ToUpper(seq)

		if err := tree.Append(upper); err != nil {
			return fmt.Errorf("append record %d (%s): %w", *recordIndex, sc.Header(), err)
		}

		if metrics != nil {
			metrics.AddSymbols(ctx, int64(len(upper)))

			growCount := tree.MapStats().GrowCount
			metrics.AddMapGrows(ctx, int64(growCount-*prevGrowCount))
			*prevGrowCount = growCount

			nodeCount := tree.NodeCount()
			metrics.AddNodesCreated(ctx, int64(nodeCount-*prevNodeCount))
			*prevNodeCount = nodeCount
		}

		*recordIndex++
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan input %s: %w", path, err)
	}

	return nil
}

// NewBuildCommand implements `sufftree build`.
func NewBuildCommand() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <input.fasta[.gz|.lz4]>...",
		Short: "Construct a suffix tree from FASTA input and report size/timing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, opts)
		},
	}

	addCommonFlags(cmd, opts)

	return cmd
}

func runBuild(cmd *cobra.Command, paths []string, opts *buildOptions) error {
	a, logger, cfg, err := loadOptions(cmd, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var metrics *obsmetrics.Recorder

	if cfg.Metrics.Enabled {
		metrics, err = obsmetrics.New()
		if err != nil {
			return fmt.Errorf("start metrics: %w", err)
		}

		metricsCtx, stopMetrics := context.WithCancel(ctx)
		defer stopMetrics()

		go func() {
			if serveErr := obsmetrics.Serve(metricsCtx, cfg.Metrics.Addr, metrics.Handler()); serveErr != nil {
				logger.Error("metrics server exited", "error", serveErr)
			}
		}()
	}

	started := time.Now()

	tree, err := buildTree(ctx, a, paths, logger, metrics)
	if err != nil {
		return err
	}

	elapsed := time.Since(started)

	obslog.LogBuildProgress(logger, obslog.BuildProgress{
		Symbols:   tree.Size(),
		Leaves:    tree.LeafCount(),
		Nodes:     tree.NodeCount(),
		MapLoad:   tree.MapStats().LoadFactor(),
		MapGrows:  tree.MapStats().GrowCount,
		ElapsedMS: elapsed.Milliseconds(),
	})

	success := color.New(color.FgGreen, color.Bold)
	success.Fprintf(cmd.OutOrStdout(), "built tree: %d symbols, %d leaves, %d nodes in %s\n", //nolint:errcheck // best-effort CLI status line.
		tree.Size(), tree.LeafCount(), tree.NodeCount(), elapsed)

	return nil
}
