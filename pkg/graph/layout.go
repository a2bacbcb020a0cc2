package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/hive"
)

// =============================================================================
// Layout - Computed Hive Plot
// =============================================================================

// Layout is the serialization format for a computed hive plot. It is
// what the CLI writes to disk, what the HTTP API returns and what the
// document store persists.
//
// AxisMetric and OrderMetric hold the metrics that were actually used,
// which differ from Options when a requested metric fell back to its
// default.
type Layout struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`

	Options     hive.Options `json:"options" bson:"options"`
	AxisMetric  string       `json:"axis_metric" bson:"axis_metric"`
	OrderMetric string       `json:"order_metric" bson:"order_metric"`

	// Classification summary
	Counts     []int     `json:"counts" bson:"counts"`
	Mean       float64   `json:"mean" bson:"mean"`
	Thresholds []float64 `json:"thresholds" bson:"thresholds"`

	Axes  []hive.Axis      `json:"axes" bson:"axes"`
	Nodes []hive.Placement `json:"nodes" bson:"nodes"`
}

// NewLayout builds a Layout from a completed pass.
func NewLayout(res *hive.Result, axisMetric, orderMetric string) Layout {
	return Layout{
		Options:     res.Options,
		AxisMetric:  axisMetric,
		OrderMetric: orderMetric,
		Counts:      res.Counts,
		Mean:        res.Mean,
		Thresholds:  res.Thresholds,
		Axes:        res.Axes,
		Nodes:       res.Placements,
	}
}

// Apply writes every node coordinate of the layout to sink, in layout order.
func (l *Layout) Apply(sink hive.Sink) {
	for _, n := range l.Nodes {
		sink.SetCoordinate(n.ID, n.X, n.Y)
	}
}

// Coordinates returns the node coordinates keyed by node ID.
func (l *Layout) Coordinates() hive.Collect {
	c := make(hive.Collect, len(l.Nodes))
	l.Apply(c)
	return c
}

// Validate checks the internal consistency of a decoded layout.
func (l *Layout) Validate() error {
	if len(l.Counts) != len(l.Axes) {
		return herrors.New(herrors.ErrCodeInvalidFormat, "layout has %d counts for %d axes", len(l.Counts), len(l.Axes))
	}
	total := 0
	for _, c := range l.Counts {
		total += c
	}
	if total != len(l.Nodes) {
		return herrors.New(herrors.ErrCodeInvalidFormat, "layout counts sum to %d but has %d nodes", total, len(l.Nodes))
	}
	seen := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		if _, dup := seen[n.ID]; dup {
			return herrors.New(herrors.ErrCodeInvalidFormat, "layout has duplicate node %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Axis < 0 || n.Axis >= len(l.Axes) {
			return herrors.New(herrors.ErrCodeInvalidFormat, "node %q references axis %d of %d", n.ID, n.Axis, len(l.Axes))
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, herrors.Wrap(herrors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
