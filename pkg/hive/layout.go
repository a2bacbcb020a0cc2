package hive

import (
	"math"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Source supplies the node entries for a layout pass.
type Source interface {
	Entries() ([]Entry, error)
}

// Sink receives computed coordinates.
type Sink interface {
	SetCoordinate(id string, x, y float64)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(id string, x, y float64)

// SetCoordinate calls f.
func (f SinkFunc) SetCoordinate(id string, x, y float64) { f(id, x, y) }

// Collect is a Sink that stores coordinates in a map keyed by node ID.
type Collect map[string]Point

// SetCoordinate implements Sink.
func (c Collect) SetCoordinate(id string, x, y float64) { c[id] = Point{X: x, Y: y} }

// Result describes a completed layout pass.
type Result struct {
	Counts     []int       `json:"counts"`
	Mean       float64     `json:"mean"`
	Thresholds []float64   `json:"thresholds"`
	Axes       []Axis      `json:"axes"`
	Groups     [][]Entry   `json:"groups"`
	Placements []Placement `json:"placements"` // axis order, then placement order
	Options    Options     `json:"options"`
}

// NodeCount returns the number of placed nodes.
func (r *Result) NodeCount() int { return len(r.Placements) }

// Compute runs a full layout pass over entries without emitting
// coordinates anywhere. Options are validated before any work is done.
// Every entry must have a non-empty unique ID and finite metric values.
func Compute(entries []Entry, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkEntries(entries); err != nil {
		return nil, err
	}

	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = e.Axis
	}
	cls, err := Classify(values, opts.NumAxes)
	if err != nil {
		return nil, err
	}

	groups, err := Partition(entries, cls.Counts)
	if err != nil {
		return nil, err
	}

	axes := Geometry(opts.NumAxes, opts.CanvasRadius)
	placements := make([]Placement, 0, len(entries))
	for k, group := range groups {
		placements = append(placements, Place(group, axes[k], opts.Order())...)
	}

	return &Result{
		Counts:     cls.Counts,
		Mean:       cls.Mean,
		Thresholds: cls.Thresholds,
		Axes:       axes,
		Groups:     groups,
		Placements: placements,
		Options:    opts,
	}, nil
}

// Layout reads entries from src, computes the layout and writes one
// coordinate per node to sink. The sink is not touched unless the whole
// pass succeeds. A nil sink is allowed.
func Layout(src Source, opts Options, sink Sink) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	entries, err := src.Entries()
	if err != nil {
		return nil, err
	}
	res, err := Compute(entries, opts)
	if err != nil {
		return nil, err
	}
	if sink != nil {
		for _, p := range res.Placements {
			sink.SetCoordinate(p.ID, p.X, p.Y)
		}
	}
	return res, nil
}

func checkEntries(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return herrors.New(herrors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := seen[e.ID]; dup {
			return herrors.New(herrors.ErrCodeInvalidInput, "duplicate node id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
		if !finite(e.Axis) {
			return herrors.New(herrors.ErrCodeMissingMetric, "node %q: axis metric is not finite (%v)", e.ID, e.Axis)
		}
		if !finite(e.Order) {
			return herrors.New(herrors.ErrCodeMissingMetric, "node %q: node-order metric is not finite (%v)", e.ID, e.Order)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
