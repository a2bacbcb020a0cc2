package hive

import (
	"slices"
	"testing"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestPartition(t *testing.T) {
	entries := []Entry{
		{ID: "f", Axis: 0},
		{ID: "c", Axis: 3},
		{ID: "a", Axis: 5},
		{ID: "e", Axis: 1},
		{ID: "b", Axis: 4},
		{ID: "d", Axis: 2},
	}

	tests := []struct {
		name   string
		counts []int
		want   [][]string
	}{
		{"even", []int{2, 2, 2}, [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}},
		{"uneven", []int{1, 0, 5}, [][]string{{"a"}, {}, {"b", "c", "d", "e", "f"}}},
		{"single axis", []int{6}, [][]string{{"a", "b", "c", "d", "e", "f"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Partition(entries, tt.counts)
			if err != nil {
				t.Fatalf("Partition() error = %v", err)
			}
			if len(groups) != len(tt.want) {
				t.Fatalf("len(groups) = %d, want %d", len(groups), len(tt.want))
			}
			for k := range groups {
				if got := ids(groups[k]); !slices.Equal(got, tt.want[k]) {
					t.Errorf("group %d = %v, want %v", k, got, tt.want[k])
				}
			}
		})
	}

	if entries[0].ID != "f" {
		t.Error("Partition modified its input")
	}
}

func TestPartitionTiesByID(t *testing.T) {
	entries := []Entry{
		{ID: "z", Axis: 1},
		{ID: "m", Axis: 1},
		{ID: "a", Axis: 1},
		{ID: "top", Axis: 2},
	}
	groups, err := Partition(entries, []int{2, 2})
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if got := ids(groups[0]); !slices.Equal(got, []string{"top", "a"}) {
		t.Errorf("group 0 = %v, want [top a]", got)
	}
	if got := ids(groups[1]); !slices.Equal(got, []string{"m", "z"}) {
		t.Errorf("group 1 = %v, want [m z]", got)
	}
}

func TestPartitionBadCounts(t *testing.T) {
	entries := []Entry{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name   string
		counts []int
	}{
		{"too few", []int{1, 0}},
		{"too many", []int{2, 1}},
		{"negative", []int{3, -1}},
		{"no axes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(entries, tt.counts)
			if !herrors.Is(err, herrors.ErrCodeInternal) {
				t.Errorf("Partition() error = %v, want %v", err, herrors.ErrCodeInternal)
			}
		})
	}
}

func TestPartitionGroupsDoNotAlias(t *testing.T) {
	entries := []Entry{{ID: "a", Axis: 2}, {ID: "b", Axis: 1}}
	groups, err := Partition(entries, []int{1, 1})
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	groups[0] = append(groups[0], Entry{ID: "x"})
	if groups[1][0].ID != "b" {
		t.Errorf("appending to group 0 overwrote group 1: %v", ids(groups[1]))
	}
}
