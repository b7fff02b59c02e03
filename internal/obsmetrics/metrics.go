// Package obsmetrics serves a Prometheus scrape endpoint backed by an
// OpenTelemetry meter, for the "build" command's optional --metrics-addr.
// It is the TwoKeyMap's "memory-layout inspection tooling" named out of
// scope for the core in spec.md, given a concrete home here: the core
// itself never imports this package or records into it directly — the CLI
// samples the tree's public accessors and feeds the instruments.
package obsmetrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Recorder holds the instruments a build reports into: symbols appended,
// TwoKeyMap grow (rehash) events, and tree nodes created.
type Recorder struct {
	handler http.Handler

	symbolsAppended metric.Int64Counter
	mapGrows        metric.Int64Counter
	nodesCreated    metric.Int64Counter
}

// New creates a Recorder with its own Prometheus registry and OTel
// MeterProvider, so repeated calls (e.g. across CLI invocations in tests)
// never collide on a shared default registry.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("sufftree")

	symbolsAppended, err := meter.Int64Counter("sufftree_symbols_appended_total",
		metric.WithDescription("Number of symbols appended to the tree."))
	if err != nil {
		return nil, fmt.Errorf("create symbols_appended counter: %w", err)
	}

	mapGrows, err := meter.Int64Counter("sufftree_twokeymap_grows_total",
		metric.WithDescription("Number of TwoKeyMap grow (rehash) events."))
	if err != nil {
		return nil, fmt.Errorf("create twokeymap_grows counter: %w", err)
	}

	nodesCreated, err := meter.Int64Counter("sufftree_nodes_created_total",
		metric.WithDescription("Number of tree nodes (leaf or internal) created."))
	if err != nil {
		return nil, fmt.Errorf("create nodes_created counter: %w", err)
	}

	return &Recorder{
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		symbolsAppended: symbolsAppended,
		mapGrows:        mapGrows,
		nodesCreated:    nodesCreated,
	}, nil
}

// Handler returns the /metrics scrape handler.
func (r *Recorder) Handler() http.Handler { return r.handler }

// AddSymbols records n additional appended symbols.
func (r *Recorder) AddSymbols(ctx context.Context, n int64) {
	r.symbolsAppended.Add(ctx, n)
}

// AddMapGrows records n TwoKeyMap grow events.
func (r *Recorder) AddMapGrows(ctx context.Context, n int64) {
	r.mapGrows.Add(ctx, n)
}

// AddNodesCreated records n newly created tree nodes.
func (r *Recorder) AddNodesCreated(ctx context.Context, n int64) {
	r.nodesCreated.Add(ctx, n)
}

// Serve runs an HTTP server exposing the /metrics endpoint on addr until
// ctx is canceled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{Addr: addr, Handler: mux} //nolint:gosec // local diagnostics endpoint, no external exposure expected.

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}

		return nil
	}
}
