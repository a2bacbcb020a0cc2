package hive

import (
	"slices"
	"testing"
)

var upLeft = Axis{Index: 0, Angle: 120, End: Point{-50, 87}, Scale: Point{50, 87}}

func TestPlace(t *testing.T) {
	tests := []struct {
		name  string
		group []Entry
		order Order
		want  []Placement
	}{
		{
			name:  "empty",
			group: nil,
			want:  nil,
		},
		{
			name:  "single node at endpoint",
			group: []Entry{{ID: "a", Order: 42}},
			want:  []Placement{{ID: "a", X: -50, Y: 87, Ratio: 1}},
		},
		{
			name:  "two nodes partition order",
			group: []Entry{{ID: "a", Order: 5}, {ID: "b", Order: 4}},
			want: []Placement{
				{ID: "a", X: -50, Y: 87, Ratio: 1},
				{ID: "b", X: -25, Y: 43.5, Ratio: 0.5},
			},
		},
		{
			name:  "equal values share a coordinate",
			group: []Entry{{ID: "a", Order: 3}, {ID: "b", Order: 3}, {ID: "c", Order: 3}},
			want: []Placement{
				{ID: "a", X: -50, Y: 87, Ratio: 1},
				{ID: "b", X: -50, Y: 87, Ratio: 1},
				{ID: "c", X: -50, Y: 87, Ratio: 1},
			},
		},
		{
			name:  "sort descending",
			group: []Entry{{ID: "lo", Order: 0}, {ID: "hi", Order: 3}, {ID: "mid", Order: 1}},
			order: Order{Sort: true},
			want: []Placement{
				{ID: "hi", X: -50, Y: 87, Ratio: 1},
				{ID: "mid", X: -25, Y: 43.5, Ratio: 0.5},
				{ID: "lo", X: -12.5, Y: 21.75, Ratio: 0.25},
			},
		},
		{
			name:  "sort ascending",
			group: []Entry{{ID: "hi", Order: 3}, {ID: "lo", Order: 0}, {ID: "mid", Order: 1}},
			order: Order{Sort: true, Ascending: true},
			want: []Placement{
				{ID: "lo", X: -12.5, Y: 21.75, Ratio: 0.25},
				{ID: "mid", X: -25, Y: 43.5, Ratio: 0.5},
				{ID: "hi", X: -50, Y: 87, Ratio: 1},
			},
		},
		{
			name:  "ascending flag ignored without sort",
			group: []Entry{{ID: "b", Order: 0}, {ID: "a", Order: 1}},
			order: Order{Ascending: true},
			want: []Placement{
				{ID: "b", X: -25, Y: 43.5, Ratio: 0.5},
				{ID: "a", X: -50, Y: 87, Ratio: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.group, upLeft, tt.order)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Place() =\n  %+v\nwant\n  %+v", got, tt.want)
			}
		})
	}
}

func TestPlaceSortTiesByID(t *testing.T) {
	group := []Entry{{ID: "c", Order: 1}, {ID: "a", Order: 1}, {ID: "b", Order: 2}}
	got := Place(group, upLeft, Order{Sort: true})
	order := []string{got[0].ID, got[1].ID, got[2].ID}
	if !slices.Equal(order, []string{"b", "a", "c"}) {
		t.Errorf("order = %v, want [b a c]", order)
	}
	if group[0].ID != "c" {
		t.Error("Place modified its input")
	}
}

func TestPlaceZeroComponentAxis(t *testing.T) {
	east := Axis{Index: 2, Angle: 360, End: Point{100, 0}, Scale: Point{100, 0}}
	got := Place([]Entry{{ID: "e", Order: 1}, {ID: "f", Order: 0}}, east, Order{})
	want := []Placement{
		{ID: "e", Axis: 2, X: 100, Y: 0, Ratio: 1},
		{ID: "f", Axis: 2, X: 50, Y: 0, Ratio: 0.5},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Place() = %+v, want %+v", got, want)
	}
}

func TestPlaceSortKeepsCoordinates(t *testing.T) {
	group := []Entry{{ID: "a", Order: 1}, {ID: "b", Order: 10}, {ID: "c", Order: 4}}
	byID := func(ps []Placement) map[string]Placement {
		m := make(map[string]Placement, len(ps))
		for _, p := range ps {
			m[p.ID] = p
		}
		return m
	}

	want := byID(Place(group, upLeft, Order{}))
	for _, order := range []Order{{Sort: true}, {Sort: true, Ascending: true}} {
		got := byID(Place(group, upLeft, order))
		for id, p := range want {
			if got[id] != p {
				t.Errorf("Place(%+v)[%s] = %+v, want %+v", order, id, got[id], p)
			}
		}
	}
	if want["b"].Ratio != 1 || want["a"].Ratio != 0.1 {
		t.Errorf("ratios a=%v b=%v, want 0.1 and 1", want["a"].Ratio, want["b"].Ratio)
	}
}
