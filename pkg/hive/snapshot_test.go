package hive

import (
	"slices"
	"testing"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/metric"
)

// scenarioGraph holds six nodes whose betweenness is 5..0, plus a few
// edges so structural metrics are non-trivial.
func scenarioGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for i, id := range []string{"a", "b", "c", "d", "e", "f"} {
		n := dag.Node{ID: id, Meta: dag.Metadata{"betweenness": float64(5 - i)}}
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}, {"f", "a"}} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestCapture(t *testing.T) {
	g := scenarioGraph(t)
	snap, err := Capture(g, metric.Attribute{Key: "betweenness"}, metric.Degree)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	want := Snapshot{
		{ID: "a", Axis: 5, Order: 3},
		{ID: "b", Axis: 4, Order: 2},
		{ID: "c", Axis: 3, Order: 2},
		{ID: "d", Axis: 2, Order: 0},
		{ID: "e", Axis: 1, Order: 0},
		{ID: "f", Axis: 0, Order: 1},
	}
	if !slices.Equal(snap, want) {
		t.Errorf("Capture() =\n  %+v\nwant\n  %+v", snap, want)
	}
}

func TestCaptureMissingMetric(t *testing.T) {
	g := scenarioGraph(t)
	_ = g.AddNode(dag.Node{ID: "bare"})

	snap, err := Capture(g, metric.Attribute{Key: "betweenness"}, metric.Degree)
	if !herrors.Is(err, herrors.ErrCodeMissingMetric) {
		t.Fatalf("Capture() error = %v, want %v", err, herrors.ErrCodeMissingMetric)
	}
	if snap != nil {
		t.Errorf("Capture() returned a partial snapshot of %d entries", len(snap))
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	snap := Snapshot{{ID: "a", Axis: 1, Order: 1}}
	entries, _ := snap.Entries()
	entries[0].ID = "changed"
	if snap[0].ID != "a" {
		t.Error("Entries() exposed the snapshot's backing array")
	}
}

func TestCaptureThenLayout(t *testing.T) {
	g := scenarioGraph(t)

	snap, err := Capture(g, metric.Attribute{Key: "betweenness"}, metric.Attribute{Key: "betweenness"})
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	// The graph can change after the snapshot without affecting the pass.
	n, _ := g.Node("a")
	n.Meta["betweenness"] = 1000.0

	coords := Collect{}
	res, err := Layout(snap, scenarioOptions(), coords)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if !slices.Equal(res.Counts, []int{2, 2, 2}) {
		t.Errorf("Counts = %v, want [2 2 2]", res.Counts)
	}
	if got := coords["a"]; got != (Point{X: -50, Y: 87}) {
		t.Errorf("coords[a] = %+v, want {-50 87}", got)
	}
	if got := coords["f"]; got != (Point{X: 50, Y: 0}) {
		t.Errorf("coords[f] = %+v, want {50 0}", got)
	}
}
