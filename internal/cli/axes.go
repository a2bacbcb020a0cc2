package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/graph"
	"github.com/matzehuels/hiveplot/pkg/hive"
	"github.com/matzehuels/hiveplot/pkg/metric"
)

// axesCommand creates the axes command, which reports how a graph would
// be binned without placing any node.
func (c *CLI) axesCommand() *cobra.Command {
	flagOpts := hive.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "axes [graph.json|graph.yaml]",
		Short: "Show axis thresholds and counts for a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(cmd, flagOpts)
			if err := opts.Validate(); err != nil {
				return err
			}
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			summary, err := summarizeAxes(g, metric.NewRegistry(), opts)
			if err != nil {
				return err
			}
			if summary.Selection.FellBack && summary.Selection.Requested != "" {
				c.Logger.Warn("metric not recognised, using default",
					"requested", summary.Selection.Requested,
					"using", summary.Selection.Name)
			}
			printAxisSummary(c.out, summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&flagOpts.NumAxes, "axes", flagOpts.NumAxes, "number of axes")
	cmd.Flags().StringVar(&flagOpts.AxisMetric, "axis-metric", flagOpts.AxisMetric, "metric that bins nodes to axes")
	cmd.Flags().Float64Var(&flagOpts.CanvasRadius, "radius", flagOpts.CanvasRadius, "canvas radius (axis length)")
	_ = cmd.RegisterFlagCompletionFunc("axis-metric", completeMetric)

	return cmd
}

// axisSummary is the binning of one graph under one axis metric.
type axisSummary struct {
	Selection metric.Selection
	Nodes     int
	Class     hive.Classification
	Axes      []hive.Axis
}

func summarizeAxes(g *dag.DAG, reg *metric.Registry, opts hive.Options) (axisSummary, error) {
	sel, err := reg.Select(opts.AxisMetric, metric.DefaultAxisMetric, g)
	if err != nil {
		return axisSummary{}, err
	}

	// The order metric is irrelevant here; degree always resolves.
	snap, err := hive.Capture(g, sel.Resolver, metric.Degree)
	if err != nil {
		return axisSummary{}, err
	}
	values := make([]float64, len(snap))
	for i, e := range snap {
		values[i] = e.Axis
	}

	class, err := hive.Classify(values, opts.NumAxes)
	if err != nil {
		return axisSummary{}, err
	}
	return axisSummary{
		Selection: sel,
		Nodes:     len(snap),
		Class:     class,
		Axes:      hive.Geometry(opts.NumAxes, opts.CanvasRadius),
	}, nil
}

func printAxisSummary(w io.Writer, s axisSummary) {
	printKeyValue(w, "Axis metric", s.Selection.Name)
	printKeyValue(w, "Nodes", strconv.Itoa(s.Nodes))
	printKeyValue(w, "Mean", strconv.FormatFloat(s.Class.Mean, 'g', 6, 64))
	fmt.Fprintln(w)

	rows := make([][]string, len(s.Axes))
	for k, ax := range s.Axes {
		bound := "unbounded"
		if k < len(s.Class.Thresholds) {
			bound = "≤ " + strconv.FormatFloat(s.Class.Thresholds[k], 'g', 6, 64)
		}
		share := "-"
		if s.Nodes > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(s.Class.Counts[k])/float64(s.Nodes))
		}
		rows[k] = []string{
			strconv.Itoa(k),
			strconv.FormatFloat(ax.Angle, 'f', 1, 64) + "°",
			bound,
			strconv.Itoa(s.Class.Counts[k]),
			share,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Axis", "Angle", "Threshold", "Nodes", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 3 {
				return StyleNumber
			}
			return StyleValue
		})

	fmt.Fprintln(w, t.Render())
}
