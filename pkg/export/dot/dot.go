package dot

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/graph"
)

// Options configures DOT export.
type Options struct {
	// Axes draws one line per axis from the origin to its endpoint.
	Axes bool
	// Labels shows node IDs next to nodes.
	Labels bool
	// Detailed adds node metadata to tooltips.
	Detailed bool
}

// palette holds axis fill colours; axes beyond its length wrap around.
var palette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3",
	"#ff7f00", "#a65628", "#f781bf", "#999999",
}

// AxisColor returns the fill colour used for nodes on axis k.
func AxisColor(k int) string { return palette[k%len(palette)] }

// ToDOT converts a graph and its layout to DOT source. Nodes absent from
// the layout are emitted without a position.
func ToDOT(g *dag.DAG, l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph hive {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.25, fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.4, color=\"#00000040\"];\n")

	if opts.Axes && len(l.Axes) > 0 {
		buf.WriteString("\n")
		buf.WriteString("  \"_origin\" [pos=\"0,0!\", style=invis, label=\"\"];\n")
		for _, a := range l.Axes {
			id := fmt.Sprintf("_axis%d", a.Index)
			fmt.Fprintf(&buf, "  %q [pos=\"%s!\", style=invis, label=\"\"];\n", id, pos(a.End.X, a.End.Y))
			fmt.Fprintf(&buf, "  \"_origin\" -> %q [dir=none, penwidth=2, color=\"#555555\"];\n", id)
		}
	}

	placed := make(map[string]int, len(l.Nodes))
	buf.WriteString("\n")
	for _, p := range l.Nodes {
		placed[p.ID] = p.Axis
		attrs := []string{
			fmt.Sprintf("pos=\"%s!\"", pos(p.X, p.Y)),
			fmt.Sprintf("fillcolor=%q", AxisColor(p.Axis)),
		}
		attrs = append(attrs, labelAttrs(g, p.ID, opts)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}
	for _, n := range g.Nodes() {
		if _, ok := placed[n.ID]; ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(labelAttrs(g, n.ID, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Export builds DOT source and checks that Graphviz can parse it.
func Export(g *dag.DAG, l graph.Layout, opts Options) (string, error) {
	src := ToDOT(g, l, opts)
	if err := Validate(src); err != nil {
		return "", err
	}
	return src, nil
}

// Validate parses DOT source with Graphviz.
func Validate(src string) error {
	parsed, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer parsed.Close()
	return nil
}

// WriteFile writes DOT source to path with 0644 permissions.
func WriteFile(path, src string) error {
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func labelAttrs(g *dag.DAG, id string, opts Options) []string {
	var attrs []string
	if opts.Labels {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", id))
	}
	attrs = append(attrs, "label=\"\"")
	if opts.Detailed {
		if n, ok := g.Node(id); ok && len(n.Meta) > 0 {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", tooltip(n)))
		}
	}
	return attrs
}

func tooltip(n *dag.Node) string {
	parts := []string{n.ID}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		if strings.HasPrefix(k, "_") {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func pos(x, y float64) string {
	return fmt.Sprintf("%.2f,%.2f", x, y)
}
