package metric

import (
	"encoding/json"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

func testGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	nodes := []dag.Node{
		{ID: "a", Meta: dag.Metadata{"betweenesscentrality": 0.5, "weight": 3, "label": "hub"}},
		{ID: "b", Meta: dag.Metadata{"betweenness": json.Number("0.25"), "closeness": "0.75"}},
		{ID: "c", Meta: dag.Metadata{"betweenness": math.NaN()}},
		{ID: "d"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "a"}, {"d", "a"}} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestStructuralResolvers(t *testing.T) {
	g := testGraph(t)
	a, _ := g.Node("a")

	tests := []struct {
		name string
		res  Resolver
		want float64
	}{
		{"degree", Degree, 5},
		{"indegree", InDegree, 2},
		{"outdegree", OutDegree, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.res.Resolve(g, a)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttributeResolve(t *testing.T) {
	g := testGraph(t)
	betweenness := Attribute{Key: "betweenness", Alternates: []string{"betweenesscentrality"}}

	tests := []struct {
		name    string
		attr    Attribute
		node    string
		want    float64
		wantErr bool
	}{
		{"alternate key", betweenness, "a", 0.5, false},
		{"json number", betweenness, "b", 0.25, false},
		{"numeric string", Attribute{Key: "closeness"}, "b", 0.75, false},
		{"int value", Attribute{Key: "weight"}, "a", 3, false},
		{"nan rejected", betweenness, "c", 0, true},
		{"missing", betweenness, "d", 0, true},
		{"non-numeric", Attribute{Key: "label"}, "a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _ := g.Node(tt.node)
			got, err := tt.attr.Resolve(g, n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !herrors.Is(err, herrors.ErrCodeMissingMetric) {
					t.Errorf("error code = %v, want %v", herrors.GetCode(err), herrors.ErrCodeMissingMetric)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{int64(-4), -4, true},
		{uint8(7), 7, true},
		{json.Number("1e3"), 1000, true},
		{" 42 ", 42, true},
		{"abc", 0, false},
		{math.Inf(1), 0, false},
		{"NaN", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ToFloat(%#v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRegistrySelect(t *testing.T) {
	g := testGraph(t)
	r := NewRegistry()

	tests := []struct {
		name         string
		requested    string
		fallback     string
		wantName     string
		wantFellBack bool
	}{
		{"canonical", "closeness", DefaultAxisMetric, NameCloseness, false},
		{"misspelled alias", "betweenesscentrality", DefaultAxisMetric, NameBetweenness, false},
		{"eccentricity alias", "eccentricty", DefaultAxisMetric, NameEccentricity, false},
		{"case insensitive", "DEGREE", DefaultOrderMetric, NameDegree, false},
		{"graph attribute", "weight", DefaultOrderMetric, "weight", false},
		{"non-numeric attribute", "label", DefaultOrderMetric, NameDegree, true},
		{"unknown", "pagerank", DefaultAxisMetric, NameBetweenness, true},
		{"empty", "", DefaultOrderMetric, NameDegree, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := r.Select(tt.requested, tt.fallback, g)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if sel.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", sel.Name, tt.wantName)
			}
			if sel.FellBack != tt.wantFellBack {
				t.Errorf("FellBack = %v, want %v", sel.FellBack, tt.wantFellBack)
			}
			if sel.Requested != tt.requested {
				t.Errorf("Requested = %q, want %q", sel.Requested, tt.requested)
			}
		})
	}
}

func TestRegistrySelectBadFallback(t *testing.T) {
	_, err := NewRegistry().Select("nope", "also-nope", dag.New(nil))
	if !herrors.Is(err, herrors.ErrCodeInvalidMetric) {
		t.Errorf("Select() error = %v, want code %v", err, herrors.ErrCodeInvalidMetric)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("constant", Func(func(*dag.DAG, *dag.Node) (float64, error) { return 7, nil }), "seven")

	res, name, ok := r.Lookup("Seven")
	if !ok || name != "constant" {
		t.Fatalf("Lookup() = (%v, %q, %v)", res, name, ok)
	}
	got, _ := res.Resolve(nil, &dag.Node{ID: "x"})
	if got != 7 {
		t.Errorf("Resolve() = %v, want 7", got)
	}
	if !slices.Contains(r.Names(), "constant") {
		t.Errorf("Names() = %v, missing constant", r.Names())
	}
}

func TestAttributeNames(t *testing.T) {
	got := AttributeNames(testGraph(t))
	want := []string{"betweenesscentrality", "betweenness", "closeness", "weight"}
	if !slices.Equal(got, want) {
		t.Errorf("AttributeNames() = %v, want %v", got, want)
	}
}
