package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/export/dot"
	"github.com/matzehuels/hiveplot/pkg/graph"
	"github.com/matzehuels/hiveplot/pkg/hive"
	"github.com/matzehuels/hiveplot/pkg/metric"
	"github.com/matzehuels/hiveplot/pkg/pipeline"
	mongostore "github.com/matzehuels/hiveplot/pkg/store/mongo"
	"github.com/matzehuels/hiveplot/pkg/store/sqlite"
)

// layoutFlags holds the flag values of the layout command.
type layoutFlags struct {
	opts hive.Options

	output   string
	dotPath  string
	dbPath   string
	labels   bool
	detailed bool
	coords   bool
	noCache  bool
	refresh  bool
	pick     bool
}

// layoutCommand creates the layout command for computing hive plot layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	f := layoutFlags{opts: hive.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "layout <graph.json|graph.yaml>...",
		Short: "Compute a hive plot layout from a graph",
		Long: `Compute a hive plot layout from a graph.

Nodes are binned to axes by the axis metric and placed along each axis
by the node-order metric. The output is a layout JSON file holding the
axes and every node coordinate. Optional sinks write a Graphviz DOT file
(render with 'neato -n2'), a SQLite position table or, when configured,
a MongoDB layout document.

Several graphs can be given at once; they are laid out concurrently with
the same options, each to its own <input>.layout.json.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(cmd, f.opts)
			if len(args) > 1 {
				return c.runLayoutBatch(cmd.Context(), args, opts, f)
			}
			return c.runLayout(cmd.Context(), args[0], opts, f)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&f.opts.CanvasRadius, "radius", f.opts.CanvasRadius, "canvas radius (axis length)")
	flags.IntVar(&f.opts.NumAxes, "axes", f.opts.NumAxes, "number of axes")
	flags.StringVar(&f.opts.AxisMetric, "axis-metric", f.opts.AxisMetric, "metric that bins nodes to axes")
	flags.StringVar(&f.opts.NodeOrderMetric, "order-metric", f.opts.NodeOrderMetric, "metric that places nodes along an axis")
	flags.BoolVar(&f.opts.SortWithinAxis, "sort", f.opts.SortWithinAxis, "list placements sorted by order metric (coordinates are unchanged)")
	flags.BoolVar(&f.opts.SortAscending, "ascending", f.opts.SortAscending, "sort ascending instead of descending (with --sort)")

	flags.StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.StringVar(&f.dotPath, "dot", "", "also write a Graphviz DOT file")
	flags.BoolVar(&f.labels, "labels", false, "show node labels in the DOT file")
	flags.BoolVar(&f.detailed, "detailed", false, "add node metadata tooltips to the DOT file")
	flags.StringVar(&f.dbPath, "db", "", "also store coordinates in this SQLite database")
	flags.BoolVar(&f.coords, "coords", false, "print node coordinates to stdout")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")
	flags.BoolVar(&f.pick, "pick", false, "choose metrics interactively")

	_ = cmd.RegisterFlagCompletionFunc("axis-metric", completeMetric)
	_ = cmd.RegisterFlagCompletionFunc("order-metric", completeMetric)

	return cmd
}

// completeMetric completes metric flag values to the built-in metric names.
func completeMetric(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return metric.NewRegistry().Names(), cobra.ShellCompDirectiveNoFileComp
}

// layoutOptions merges flag values over the configured layout options.
// Only flags set on the command line take precedence.
func (c *CLI) layoutOptions(cmd *cobra.Command, flagOpts hive.Options) hive.Options {
	opts := c.Config.Layout
	changed := cmd.Flags().Changed
	if changed("radius") {
		opts.CanvasRadius = flagOpts.CanvasRadius
	}
	if changed("axes") {
		opts.NumAxes = flagOpts.NumAxes
	}
	if changed("axis-metric") {
		opts.AxisMetric = flagOpts.AxisMetric
	}
	if changed("order-metric") {
		opts.NodeOrderMetric = flagOpts.NodeOrderMetric
	}
	if changed("sort") {
		opts.SortWithinAxis = flagOpts.SortWithinAxis
	}
	if changed("ascending") {
		opts.SortAscending = flagOpts.SortAscending
	}
	return opts
}

// runLayout loads the graph, computes the layout and writes every sink.
func (c *CLI) runLayout(ctx context.Context, input string, opts hive.Options, f layoutFlags) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if f.pick {
		picked, ok, err := pickMetrics(ctx, g, runner.Registry.Names(), opts)
		if err != nil {
			return fmt.Errorf("metric picker: %w", err)
		}
		if !ok {
			printInfo(c.out, "Cancelled")
			return nil
		}
		opts = picked
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = defaultOutputPath(input)
	}

	writers, cleanup, err := c.layoutWriters(ctx, outputPath, f)
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := newSpinner(ctx, c.errOut, "Computing hive plot layout...")
	spinner.Start()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Graph:   g,
		Source:  input,
		Layout:  opts,
		Refresh: f.refresh,
	}, writers...)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed layout for %d nodes", res.Stats.NodeCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess(c.out, "Layout complete")
	for _, w := range writers {
		switch w := w.(type) {
		case pipeline.LayoutFile:
			printFile(c.out, w.Path)
		case pipeline.DOTFile:
			printFile(c.out, w.Path)
		case pipeline.Positions:
			printDetail(c.out, "positions stored under layout %s", res.RunID)
		case pipeline.Documents:
			printDetail(c.out, "layout document %s saved", res.RunID)
		}
	}
	printStats(c.out, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)
	printDetail(c.out, "axis metric %s · order metric %s · counts %v",
		res.AxisMetric.Name, res.OrderMetric.Name, res.Layout.Counts)
	if f.dotPath != "" {
		fmt.Fprintln(c.out)
		printNextStep(c.out, "Render", "neato -n2 -Tsvg "+f.dotPath+" -o plot.svg")
	}
	return nil
}

// layoutWriters builds the sinks requested by flags and configuration.
// The returned cleanup closes any store that was opened.
func (c *CLI) layoutWriters(ctx context.Context, outputPath string, f layoutFlags) ([]pipeline.Writer, func(), error) {
	writers := []pipeline.Writer{pipeline.LayoutFile{Path: outputPath}}

	if f.dotPath != "" {
		writers = append(writers, pipeline.DOTFile{
			Path:    f.dotPath,
			Options: dot.Options{Axes: true, Labels: f.labels, Detailed: f.detailed},
		})
	}

	stores, cleanup, err := c.storeWriters(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	writers = append(writers, stores...)

	if f.coords {
		writers = append(writers, pipeline.Coordinates{Sink: coordinatePrinter(c.out)})
	}

	return writers, cleanup, nil
}

// storeWriters opens the position and document stores named by flags and
// configuration. The writers it returns are safe to share between
// concurrent runs.
func (c *CLI) storeWriters(ctx context.Context, f layoutFlags) ([]pipeline.Writer, func(), error) {
	var (
		writers []pipeline.Writer
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	dbPath := f.dbPath
	if dbPath == "" {
		dbPath = c.Config.Store.SQLite
	}
	if dbPath != "" {
		ps, err := sqlite.New(dbPath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = ps.Close() })
		writers = append(writers, pipeline.Positions{Store: ps})
	}

	if sc := c.Config.Store; sc.MongoURI != "" {
		ms, err := mongostore.Connect(ctx, sc.MongoURI, sc.MongoDatabase, sc.MongoCollection)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = ms.Close(context.Background()) })
		writers = append(writers, pipeline.Documents{Store: ms})
	}

	return writers, cleanup, nil
}

// runLayoutBatch lays out several graphs concurrently with the same
// options. Each input gets its own <input>.layout.json; the position and
// document stores are shared.
func (c *CLI) runLayoutBatch(ctx context.Context, inputs []string, opts hive.Options, f layoutFlags) error {
	switch {
	case f.output != "":
		return herrors.New(herrors.ErrCodeInvalidInput, "--output takes a single input graph")
	case f.dotPath != "":
		return herrors.New(herrors.ErrCodeInvalidInput, "--dot takes a single input graph")
	case f.coords:
		return herrors.New(herrors.ErrCodeInvalidInput, "--coords takes a single input graph")
	case f.pick:
		return herrors.New(herrors.ErrCodeInvalidInput, "--pick takes a single input graph")
	}
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		out := defaultOutputPath(in)
		if seen[out] {
			return herrors.New(herrors.ErrCodeInvalidInput, "inputs would share the output file %s", out)
		}
		seen[out] = true
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	stores, cleanup, err := c.storeWriters(ctx, f)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs := make([]pipeline.Job, len(inputs))
	for i, input := range inputs {
		jobs[i] = pipeline.Job{
			Options: pipeline.Options{Input: input, Layout: opts, Refresh: f.refresh},
			Writers: append([]pipeline.Writer{pipeline.LayoutFile{Path: defaultOutputPath(input)}}, stores...),
		}
	}

	spinner := newSpinner(ctx, c.errOut, fmt.Sprintf("Computing %d hive plot layouts...", len(jobs)))
	spinner.Start()

	prog := newProgress(c.Logger)
	results, err := runner.ComputeMany(ctx, jobs)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed %d layouts", len(results)))

	printSuccess(c.out, "%d layouts complete", len(results))
	for i, res := range results {
		printFile(c.out, defaultOutputPath(inputs[i]))
		printStats(c.out, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)
		printDetail(c.out, "axis metric %s · order metric %s · counts %v",
			res.AxisMetric.Name, res.OrderMetric.Name, res.Layout.Counts)
	}
	return nil
}

// defaultOutputPath is <input without extension>.layout.json.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// coordinatePrinter returns a sink that prints one tab-separated
// "id x y" line per node.
func coordinatePrinter(w io.Writer) hive.Sink {
	return hive.SinkFunc(func(id string, x, y float64) {
		fmt.Fprintf(w, "%s\t%g\t%g\n", id, x, y)
	})
}

// pickableMetrics lists the registered metrics followed by the numeric
// attributes of g that are not already registered names.
func pickableMetrics(g *dag.DAG, registered []string) []string {
	names := append([]string(nil), registered...)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, attr := range metric.AttributeNames(g) {
		if !seen[strings.ToLower(attr)] {
			names = append(names, attr)
		}
	}
	return names
}
