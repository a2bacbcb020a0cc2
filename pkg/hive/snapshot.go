package hive

import (
	"slices"

	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/metric"
)

// Snapshot is an immutable set of entries captured from a graph.
// It implements Source.
type Snapshot []Entry

// Entries returns a copy of the captured entries.
func (s Snapshot) Entries() ([]Entry, error) { return slices.Clone(s), nil }

// Capture reads the axis and node-order value of every node of g, in ID
// order. The first resolver error aborts the capture, so a snapshot is
// either complete or absent. The caller must hold g stable for the
// duration of the call.
func Capture(g *dag.DAG, axis, order metric.Resolver) (Snapshot, error) {
	nodes := g.Nodes()
	snap := make(Snapshot, 0, len(nodes))
	for _, n := range nodes {
		a, err := axis.Resolve(g, n)
		if err != nil {
			return nil, err
		}
		o, err := order.Resolve(g, n)
		if err != nil {
			return nil, err
		}
		snap = append(snap, Entry{ID: n.ID, Axis: a, Order: o})
	}
	return snap, nil
}
