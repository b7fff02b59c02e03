// Package obslog builds the CLI's structured logger. The core packages
// (pkg/alphabet, pkg/twokeymap, pkg/sufftree) never take a logger; only
// the CLI commands that drive construction log progress, warnings, and
// timing.
package obslog

import (
	"io"
	"log/slog"
	"strings"
)

// New builds a [slog.Logger] writing to w, with handler and level chosen
// by format ("json" or "text") and level ("debug", "info", "warn",
// "error"). Unrecognized values fall back to text/info rather than erroring
// — the CLI's config loader is what rejects bad values at the boundary.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler

	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BuildProgress summarizes a tree's construction; the build command logs
// one once construction has finished.
type BuildProgress struct {
	Symbols   int
	Leaves    int
	Nodes     int
	MapLoad   float64
	MapGrows  int
	ElapsedMS int64
}

// LogBuildProgress emits a structured log entry for one progress sample,
// mirroring the field-per-measurement style of a per-chunk memory log.
func LogBuildProgress(logger *slog.Logger, p BuildProgress) {
	logger.Info("sufftree: build progress",
		"symbols", p.Symbols,
		"leaves", p.Leaves,
		"nodes", p.Nodes,
		"map_load_factor", p.MapLoad,
		"map_grows", p.MapGrows,
		"elapsed_ms", p.ElapsedMS,
	)
}

// LogSkippedRecord warns about a malformed FASTA record that was skipped
// rather than aborting the whole build.
func LogSkippedRecord(logger *slog.Logger, recordIndex int, reason string) {
	logger.Warn("sufftree: skipped malformed FASTA record",
		"record", recordIndex,
		"reason", reason,
	)
}
