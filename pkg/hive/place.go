package hive

import (
	"cmp"
	"slices"
)

// Order controls how nodes are ordered along an axis before placement.
type Order struct {
	Sort      bool // re-sort the group by node-order value
	Ascending bool // ascending instead of descending; only used with Sort
}

// Placement is a node's computed position.
type Placement struct {
	ID    string  `json:"id" bson:"id"`
	Axis  int     `json:"axis" bson:"axis"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Ratio float64 `json:"ratio" bson:"ratio"`
}

// Place positions a group of entries along an axis. Each entry gets
//
//	ratio = (v - min + 1) / (max - min + 1)
//
// where v is its node-order value and min and max are the extremes of the
// group. The coordinate is the axis endpoint scaled by ratio, so the
// largest value sits exactly at the endpoint and every ratio lies in
// (0, 1]. The result follows the group order, re-sorted first when
// order.Sort is set. Because min and max are the true extremes of the
// group, sorting changes only the order of the result, never a
// coordinate.
func Place(group []Entry, axis Axis, order Order) []Placement {
	if len(group) == 0 {
		return nil
	}

	nodes := group
	if order.Sort {
		nodes = slices.Clone(group)
		slices.SortStableFunc(nodes, func(a, b Entry) int {
			c := cmp.Compare(a.Order, b.Order)
			if !order.Ascending {
				c = -c
			}
			if c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}

	lo, hi := nodes[0].Order, nodes[0].Order
	for _, e := range nodes[1:] {
		lo = min(lo, e.Order)
		hi = max(hi, e.Order)
	}
	span := hi - lo + 1

	dx, dy := sign(axis.End.X), sign(axis.End.Y)
	out := make([]Placement, len(nodes))
	for i, e := range nodes {
		ratio := (e.Order - lo + 1) / span
		out[i] = Placement{
			ID:    e.ID,
			Axis:  axis.Index,
			X:     dx * axis.Scale.X * ratio,
			Y:     dy * axis.Scale.Y * ratio,
			Ratio: ratio,
		}
	}
	return out
}
