package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/basepair-labs/sufftree/pkg/alg/mapx"
	"github.com/basepair-labs/sufftree/pkg/alg/stats"
	"github.com/basepair-labs/sufftree/pkg/sufftree"
)

// Rough per-record footprint of the arena and TwoKeyMap backing arrays, in
// bytes, used only to give an order-of-magnitude estimate in the stats
// table — not an exact accounting of Go's runtime representation.
const (
	bytesPerArenaNode = 20 // kind + parent + edgeStart + edgeEnd/stringStart + suffixLink.
	bytesPerMapSlot   = 10 // K1(4) + K2(1) + V(4) + state(1).
)

// NewStatsCommand implements `sufftree stats`.
func NewStatsCommand() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "stats <input.fasta[.gz|.lz4]>...",
		Short: "Construct a suffix tree and report structural statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, opts)
		},
	}

	addCommonFlags(cmd, opts)

	return cmd
}

func runStats(cmd *cobra.Command, paths []string, opts *buildOptions) error {
	a, logger, _, err := loadOptions(cmd, opts)
	if err != nil {
		return err
	}

	tree, err := buildTree(context.Background(), a, paths, logger, nil)
	if err != nil {
		return err
	}

	mapStats := tree.MapStats()
	footprint := uint64(tree.NodeCount())*bytesPerArenaNode + uint64(mapStats.Cap)*bytesPerMapSlot //nolint:gosec // stats display only.

	summary := table.NewWriter()
	summary.SetOutputMirror(cmd.OutOrStdout())
	summary.SetStyle(table.StyleLight)
	summary.AppendHeader(table.Row{"metric", "value"})
	summary.AppendRow(table.Row{"symbols", tree.Size()})
	summary.AppendRow(table.Row{"leaves", tree.LeafCount()})
	summary.AppendRow(table.Row{"nodes", tree.NodeCount()})
	summary.AppendRow(table.Row{"map len", mapStats.Len})
	summary.AppendRow(table.Row{"map cap", mapStats.Cap})
	summary.AppendRow(table.Row{"map load factor", fmt.Sprintf("%.3f", mapStats.LoadFactor())})
	summary.AppendRow(table.Row{"map grows", mapStats.GrowCount})
	summary.AppendRow(table.Row{"estimated footprint", humanize.Bytes(footprint)})
	summary.Render()

	lengths := leafEdgeLengths(tree)
	if len(lengths) > 0 {
		renderLeafEdgeDistribution(cmd, lengths)
	}

	renderRootChildren(cmd, tree)

	return nil
}

// leafEdgeLengths walks every leaf's incoming edge length using only the
// public Node surface (Children, IsLeaf, Length), as any client outside
// pkg/sufftree must.
func leafEdgeLengths(tree *sufftree.Tree) []float64 {
	var lengths []float64

	phase := tree.Phase()

	var walk func(n sufftree.Node)

	walk = func(n sufftree.Node) {
		if n.IsLeaf() {
			lengths = append(lengths, float64(n.Length(phase)))

			return
		}

		n.Children()(func(_ byte, child sufftree.Node) bool {
			walk(child)

			return true
		})
	}

	walk(tree.Root())

	return lengths
}

func renderLeafEdgeDistribution(cmd *cobra.Command, lengths []float64) {
	mean, stddev := stats.MeanStdDev(lengths)

	dist := table.NewWriter()
	dist.SetOutputMirror(cmd.OutOrStdout())
	dist.SetStyle(table.StyleLight)
	dist.AppendHeader(table.Row{"leaf edge length", "value"})
	dist.AppendRow(table.Row{"min", stats.Min(lengths)})
	dist.AppendRow(table.Row{"max", stats.Max(lengths)})
	dist.AppendRow(table.Row{"mean", fmt.Sprintf("%.2f", mean)})
	dist.AppendRow(table.Row{"stddev", fmt.Sprintf("%.2f", stddev)})
	dist.AppendRow(table.Row{"median", fmt.Sprintf("%.2f", stats.Median(lengths))})
	dist.AppendRow(table.Row{"p95", fmt.Sprintf("%.2f", stats.Percentile(lengths, stats.PercentileP95))})
	dist.Render()
}

// renderRootChildren lists the root's immediate children by first-edge
// symbol, in sorted order — the TwoKeyMap's per-K1 iteration order is
// unspecified, so sorting here is what makes the table's row order
// reproducible across runs.
func renderRootChildren(cmd *cobra.Command, tree *sufftree.Tree) {
	bySymbol := make(map[byte]sufftree.Node)

	tree.Root().Children()(func(symbol byte, child sufftree.Node) bool {
		bySymbol[symbol] = child

		return true
	})

	children := table.NewWriter()
	children.SetOutputMirror(cmd.OutOrStdout())
	children.SetStyle(table.StyleLight)
	children.AppendHeader(table.Row{"root child symbol", "kind"})

	for _, symbol := range mapx.SortedKeys(bySymbol) {
		kind := "internal"
		if bySymbol[symbol].IsLeaf() {
			kind = "leaf"
		}

		children.AppendRow(table.Row{string(symbol), kind})
	}

	children.Render()
}
