package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/basepair-labs/sufftree/internal/seqio"
	"github.com/basepair-labs/sufftree/pkg/alg/stats"
	"github.com/basepair-labs/sufftree/pkg/sufftree"
)

const defaultChartOut = "bench.html"

// growthSample is one (phase, node count) observation taken during a
// sampled build, plus the exponentially-smoothed node-growth rate at that
// point.
type growthSample struct {
	phase     int
	nodeCount int
	emaRate   float64
}

// NewBenchCommand implements `sufftree bench`.
func NewBenchCommand() *cobra.Command {
	opts := &buildOptions{}

	var (
		sampleEvery int
		chartOut    string
		emaAlpha    float64
	)

	cmd := &cobra.Command{
		Use:   "bench <input.fasta[.gz|.lz4]>...",
		Short: "Construct a suffix tree while sampling growth for a chart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args, opts, sampleEvery, chartOut, emaAlpha)
		},
	}

	addCommonFlags(cmd, opts)
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 0, "sample node count every N symbols (default: config input.sample_every)")
	cmd.Flags().StringVar(&chartOut, "chart", defaultChartOut, "HTML file to render the growth chart to")
	cmd.Flags().Float64Var(&emaAlpha, "ema-alpha", 0.2, "smoothing factor for the node-growth-rate EMA")

	return cmd
}

func runBench(cmd *cobra.Command, paths []string, opts *buildOptions, sampleEvery int, chartOut string, emaAlpha float64) error {
	a, logger, cfg, err := loadOptions(cmd, opts)
	if err != nil {
		return err
	}

	if sampleEvery <= 0 {
		sampleEvery = cfg.Input.SampleEvery
	}

	tree := sufftree.NewTree(a)
	ema := stats.NewEMA(emaAlpha)

	var samples []growthSample

	symbolsSinceSample := 0
	prevNodeCount := tree.NodeCount()

	recordIndex := 0

	for _, path := range paths {
		rc, openErr := seqio.Open(path)
		if openErr != nil {
			return fmt.Errorf("open input: %w", openErr)
		}

		sc := seqio.NewScanner(rc)

		for sc.Next() {
			seq := bytes.ToUpper(sc.Sequence())

			for _, b := range seq {
				if err := tree.Append([]byte{b}); err != nil {
					rc.Close()

					return fmt.Errorf("append record %d (%s): %w", recordIndex, sc.Header(), err)
				}

				symbolsSinceSample++

				if symbolsSinceSample >= sampleEvery {
					symbolsSinceSample = 0

					nodeCount := tree.NodeCount()
					rate := ema.Update(float64(nodeCount - prevNodeCount))
					prevNodeCount = nodeCount

					samples = append(samples, growthSample{
						phase:     tree.Phase(),
						nodeCount: nodeCount,
						emaRate:   rate,
					})
				}
			}

			recordIndex++
		}

		scanErr := sc.Err()
		closeErr := rc.Close()

		if scanErr != nil {
			return fmt.Errorf("scan input %s: %w", path, scanErr)
		}

		if closeErr != nil {
			return fmt.Errorf("close input %s: %w", path, closeErr)
		}
	}

	if err := tree.Terminate(); err != nil {
		return fmt.Errorf("terminate tree: %w", err)
	}

	logger.Info("bench: construction complete", "symbols", tree.Size(), "samples", len(samples))

	if err := renderGrowthChart(samples, chartOut); err != nil {
		return err
	}

	if len(samples) > 0 {
		rates := make([]float64, len(samples))
		for i, s := range samples {
			rates[i] = s.emaRate
		}

		mean, stddev := stats.MeanStdDev(rates)
		fmt.Fprintf(cmd.OutOrStdout(), "growth rate (nodes/sample): mean=%.2f stddev=%.2f p95=%.2f\n", //nolint:errcheck // best-effort CLI status line.
			mean, stddev, stats.Percentile(rates, stats.PercentileP95))
	}

	return nil
}

func renderGrowthChart(samples []growthSample, chartOut string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Suffix tree node growth"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "phase"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "nodes"}),
	)

	phases := make([]string, len(samples))
	nodeCounts := make([]opts.LineData, len(samples))
	emaRates := make([]opts.LineData, len(samples))

	for i, s := range samples {
		phases[i] = fmt.Sprintf("%d", s.phase)
		nodeCounts[i] = opts.LineData{Value: s.nodeCount}
		emaRates[i] = opts.LineData{Value: s.emaRate}
	}

	line.SetXAxis(phases).
		AddSeries("node count", nodeCounts).
		AddSeries("ema growth rate", emaRates)

	f, err := os.Create(chartOut) //nolint:gosec // operator-supplied CLI path.
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
