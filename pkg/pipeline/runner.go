package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hiveplot/pkg/cache"
	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/graph"
	"github.com/matzehuels/hiveplot/pkg/hive"
	"github.com/matzehuels/hiveplot/pkg/metric"
	"github.com/matzehuels/hiveplot/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, metric registry and
// logger. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Registry *metric.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Registry: metric.NewRegistry(),
	}
}

// Execute runs the complete load → layout → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options, writers ...Writer) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Debug("loaded graph",
		"source", opts.source(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	lr, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.GraphHash = lr.GraphHash
	result.AxisMetric = lr.AxisMetric
	result.OrderMetric = lr.OrderMetric
	result.CacheInfo.LayoutHit = lr.Hit
	result.Stats.LayoutTime = time.Since(layoutStart)

	l := lr.Layout
	l.ID = result.RunID
	l.CreatedAt = time.Now().UTC()
	l.Source = opts.source()
	result.Layout = l

	r.Logger.Info("computed layout",
		"axis_metric", l.AxisMetric,
		"order_metric", l.OrderMetric,
		"counts", l.Counts,
		"cached", lr.Hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Write
	if len(writers) > 0 {
		writeStart := time.Now()
		if err := r.Write(ctx, g, l, writers...); err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}
		result.Stats.WriteTime = time.Since(writeStart)
	}

	return result, nil
}

// Load returns opts.Graph if set, a copy of opts.Shared taken under its
// read lock if that is set, and otherwise reads opts.Input.
func (r *Runner) Load(ctx context.Context, opts Options) (g *dag.DAG, err error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.source())
	start := time.Now()
	defer func() {
		n := 0
		if g != nil {
			n = g.NodeCount()
		}
		hooks.OnLoadComplete(ctx, opts.source(), n, time.Since(start), err)
	}()

	switch {
	case opts.Graph != nil:
		return opts.Graph, nil
	case opts.Shared != nil:
		err = opts.Shared.Read(func(d *dag.DAG) error {
			g = d.Clone()
			return nil
		})
		return g, err
	}
	return graph.ReadGraphFile(opts.Input)
}

// LayoutResult is the outcome of [Runner.LayoutWithCacheInfo].
type LayoutResult struct {
	Layout      graph.Layout
	GraphHash   string
	AxisMetric  metric.Selection
	OrderMetric metric.Selection
	Hit         bool
}

// SelectMetrics resolves the axis and node-order metric names of opts
// against g, logging a warning for every name that fell back.
func (r *Runner) SelectMetrics(g *dag.DAG, opts hive.Options) (axis, order metric.Selection, err error) {
	axis, err = r.Registry.Select(opts.AxisMetric, metric.DefaultAxisMetric, g)
	if err != nil {
		return axis, order, err
	}
	order, err = r.Registry.Select(opts.NodeOrderMetric, metric.DefaultOrderMetric, g)
	if err != nil {
		return axis, order, err
	}
	for _, sel := range []metric.Selection{axis, order} {
		if sel.FellBack && sel.Requested != "" {
			r.Logger.Warn("metric not recognised, using default",
				"requested", sel.Requested,
				"using", sel.Name)
		}
	}
	return axis, order, nil
}

// LayoutWithCacheInfo computes the layout of g under opts.Layout, using
// the cache when possible. The returned layout has no ID, timestamp or
// source; [Runner.Execute] fills those in per run.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *dag.DAG, opts Options) (*LayoutResult, error) {
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}

	axis, order, err := r.SelectMetrics(g, opts.Layout)
	if err != nil {
		return nil, err
	}
	lr := &LayoutResult{AxisMetric: axis, OrderMetric: order}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	lr.GraphHash = cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(lr.GraphHash, cache.LayoutKeyOpts{
		CanvasRadius:    opts.Layout.CanvasRadius,
		NumAxes:         opts.Layout.NumAxes,
		AxisMetric:      axis.Name,
		NodeOrderMetric: order.Name,
		SortWithinAxis:  opts.Layout.SortWithinAxis,
		SortAscending:   opts.Layout.SortAscending,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				lr.Layout, lr.Hit = cached, true
				return lr, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Debug("cache lookup failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	snap, err := hive.Capture(g, axis.Resolver, order.Resolver)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layout.NumAxes, len(snap))
	start := time.Now()
	res, err := hive.Compute(snap, opts.Layout)
	if err != nil {
		hooks.OnLayoutComplete(ctx, nil, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, res.Counts, time.Since(start), nil)

	lr.Layout = graph.NewLayout(res, axis.Name, order.Name)

	// Cache the result
	if data, err := graph.MarshalLayout(lr.Layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err != nil {
			r.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return lr, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *dag.DAG, opts Options) (graph.Layout, error) {
	lr, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	return lr.Layout, nil
}

// Write hands l to each writer in order, stopping at the first error.
func (r *Runner) Write(ctx context.Context, g *dag.DAG, l graph.Layout, writers ...Writer) (err error) {
	names := make([]string, len(writers))
	for i, w := range writers {
		names[i] = w.Name()
	}

	hooks := observability.Pipeline()
	hooks.OnWriteStart(ctx, names)
	start := time.Now()
	defer func() { hooks.OnWriteComplete(ctx, names, time.Since(start), err) }()

	for _, w := range writers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Write(ctx, g, l); err != nil {
			return fmt.Errorf("%s: %w", w.Name(), err)
		}
		r.Logger.Debug("wrote layout", "writer", w.Name(), "id", l.ID)
	}
	return nil
}

// ComputeMany runs several independent jobs concurrently, at most
// GOMAXPROCS at a time. Each job loads its own graph (or its own copy of
// a shared one) and hands its layout to its own writers. Results are
// returned in job order. The first failure cancels the remaining jobs.
func (r *Runner) ComputeMany(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, job.Options, job.Writers...)
			if err != nil {
				return fmt.Errorf("run %d (%s): %w", i, job.Options.source(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
