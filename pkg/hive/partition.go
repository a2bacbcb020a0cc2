package hive

import (
	"cmp"
	"slices"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Entry is one node's snapshot: its ID, axis metric value and node-order
// metric value.
type Entry struct {
	ID    string  `json:"id"`
	Axis  float64 `json:"axis"`
	Order float64 `json:"order"`
}

// SortByAxis sorts entries in place by axis value descending, ties by ID
// ascending.
func SortByAxis(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Axis, a.Axis); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Partition sorts a copy of entries by axis value descending and slices
// it into consecutive groups of the given sizes. Group k receives the next
// counts[k] entries. The counts must be non-negative and sum to
// len(entries); anything else is an INTERNAL_ERROR.
func Partition(entries []Entry, counts []int) ([][]Entry, error) {
	total := 0
	for k, c := range counts {
		if c < 0 {
			return nil, herrors.New(herrors.ErrCodeInternal, "axis %d has negative count %d", k, c)
		}
		total += c
	}
	if total != len(entries) {
		return nil, herrors.New(herrors.ErrCodeInternal,
			"axis counts sum to %d but there are %d nodes", total, len(entries))
	}

	sorted := slices.Clone(entries)
	SortByAxis(sorted)

	groups := make([][]Entry, len(counts))
	start := 0
	for k, c := range counts {
		groups[k] = sorted[start : start+c : start+c]
		start += c
	}
	return groups, nil
}
