package graph

import (
	"path/filepath"
	"testing"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/hive"
)

func sampleLayout(t *testing.T) Layout {
	t.Helper()
	entries := []hive.Entry{
		{ID: "a", Axis: 3, Order: 2},
		{ID: "b", Axis: 2, Order: 1},
		{ID: "c", Axis: 1, Order: 0},
	}
	opts := hive.DefaultOptions()
	opts.CanvasRadius = 100
	res, err := hive.Compute(entries, opts)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLayout(res, "betweenness", "degree")
	l.ID = "test"
	return l
}

func TestLayoutRoundTrip(t *testing.T) {
	l := sampleLayout(t)
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}

	if back.ID != "test" || back.AxisMetric != "betweenness" || back.OrderMetric != "degree" {
		t.Errorf("header = %+v", back)
	}
	if back.Options != l.Options {
		t.Errorf("Options = %+v, want %+v", back.Options, l.Options)
	}
	if len(back.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(back.Nodes))
	}
	for i := range l.Nodes {
		if back.Nodes[i] != l.Nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, back.Nodes[i], l.Nodes[i])
		}
	}
}

func TestLayoutCoordinates(t *testing.T) {
	l := sampleLayout(t)
	coords := l.Coordinates()
	if len(coords) != 3 {
		t.Fatalf("coords = %d, want 3", len(coords))
	}
	if got := coords["a"]; got != (hive.Point{X: -50, Y: 87}) {
		t.Errorf("coords[a] = %+v, want {-50 87}", got)
	}
}

func TestUnmarshalLayoutRejectsInconsistent(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"id": `},
		{"count mismatch", `{"counts": [1, 1], "axes": [{}, {}], "nodes": [{"id": "a", "axis": 0}]}`},
		{"axes mismatch", `{"counts": [1], "axes": [{}, {}], "nodes": [{"id": "a", "axis": 0}]}`},
		{"bad axis", `{"counts": [1], "axes": [{}], "nodes": [{"id": "a", "axis": 4}]}`},
		{"duplicate", `{"counts": [2], "axes": [{}], "nodes": [{"id": "a"}, {"id": "a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.json))
			if !herrors.Is(err, herrors.ErrCodeInvalidFormat) {
				t.Errorf("UnmarshalLayout() error = %v, want %v", err, herrors.ErrCodeInvalidFormat)
			}
		})
	}
}
