package pipeline

import (
	"context"

	"github.com/matzehuels/hiveplot/pkg/cache"
	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/export/dot"
	"github.com/matzehuels/hiveplot/pkg/graph"
	"github.com/matzehuels/hiveplot/pkg/hive"
	mongostore "github.com/matzehuels/hiveplot/pkg/store/mongo"
	"github.com/matzehuels/hiveplot/pkg/store/sqlite"
)

// Writer receives a finished layout at the end of a run.
type Writer interface {
	Name() string
	Write(ctx context.Context, g *dag.DAG, l graph.Layout) error
}

// LayoutFile writes the layout as JSON to Path.
type LayoutFile struct{ Path string }

func (LayoutFile) Name() string { return "layout" }

func (w LayoutFile) Write(_ context.Context, _ *dag.DAG, l graph.Layout) error {
	return graph.WriteLayoutFile(l, w.Path)
}

// DOTFile writes a Graphviz rendering of the layout to Path.
type DOTFile struct {
	Path    string
	Options dot.Options
}

func (DOTFile) Name() string { return "dot" }

func (w DOTFile) Write(_ context.Context, g *dag.DAG, l graph.Layout) error {
	src, err := dot.Export(g, l, w.Options)
	if err != nil {
		return err
	}
	return dot.WriteFile(w.Path, src)
}

// Positions stores node coordinates in a SQLite position store, keyed by
// layout ID.
type Positions struct{ Store *sqlite.PositionStore }

func (Positions) Name() string { return "sqlite" }

func (w Positions) Write(ctx context.Context, _ *dag.DAG, l graph.Layout) error {
	batch := w.Store.Batch(l.ID)
	l.Apply(batch)
	return batch.Commit(ctx)
}

// Documents saves the layout in a MongoDB layout store, retrying
// transient network failures.
type Documents struct{ Store *mongostore.Store }

func (Documents) Name() string { return "mongo" }

func (w Documents) Write(ctx context.Context, _ *dag.DAG, l graph.Layout) error {
	return cache.RetryWithBackoff(ctx, func() error {
		return w.Store.Save(ctx, l)
	})
}

// Coordinates forwards every node coordinate to an arbitrary hive.Sink.
type Coordinates struct{ Sink hive.Sink }

func (Coordinates) Name() string { return "sink" }

func (w Coordinates) Write(_ context.Context, _ *dag.DAG, l graph.Layout) error {
	l.Apply(w.Sink)
	return nil
}
