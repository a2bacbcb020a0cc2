package hive_test

import (
	"fmt"

	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/hive"
	"github.com/matzehuels/hiveplot/pkg/metric"
)

func ExampleClassify() {
	c, _ := hive.Classify([]float64{5, 4, 3, 2, 1, 0}, 3)
	fmt.Println("Mean:", c.Mean)
	fmt.Printf("Thresholds: %.3f\n", c.Thresholds)
	fmt.Println("Counts:", c.Counts)
	// Output:
	// Mean: 2.5
	// Thresholds: [1.667 3.333]
	// Counts: [2 2 2]
}

func ExampleGeometry() {
	for _, a := range hive.Geometry(3, 100) {
		fmt.Printf("axis %d: %.0f° end=(%.0f, %.0f)\n", a.Index, a.Angle, a.End.X, a.End.Y)
	}
	// Output:
	// axis 0: 120° end=(-50, 87)
	// axis 1: 240° end=(-50, -87)
	// axis 2: 360° end=(100, 0)
}

func ExampleLayout() {
	g := dag.New(nil)
	for i, id := range []string{"hub", "relay", "leaf"} {
		_ = g.AddNode(dag.Node{ID: id, Meta: dag.Metadata{"betweenness": float64(2 - i)}})
	}
	_ = g.AddEdge(dag.Edge{From: "hub", To: "relay"})
	_ = g.AddEdge(dag.Edge{From: "relay", To: "leaf"})

	snap, _ := hive.Capture(g, metric.Attribute{Key: "betweenness"}, metric.Degree)

	opts := hive.DefaultOptions()
	opts.CanvasRadius = 100

	coords := hive.Collect{}
	res, _ := hive.Layout(snap, opts, coords)
	fmt.Println("Counts:", res.Counts)
	for _, p := range res.Placements {
		fmt.Printf("%s: axis %d (%.1f, %.1f)\n", p.ID, p.Axis, coords[p.ID].X, coords[p.ID].Y)
	}
	// Output:
	// Counts: [1 1 1]
	// hub: axis 0 (-50.0, 87.0)
	// relay: axis 1 (-50.0, -87.0)
	// leaf: axis 2 (100.0, 0.0)
}
