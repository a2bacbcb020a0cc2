package dag

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		setup   []Node
		add     Node
		wantErr error
	}{
		{"valid", nil, Node{ID: "a"}, nil},
		{"empty id", nil, Node{ID: ""}, ErrInvalidNodeID},
		{"duplicate", []Node{{ID: "a"}}, Node{ID: "a"}, ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, n := range tt.setup {
				if err := g.AddNode(n); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}
			if err := g.AddNode(tt.add); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddNodeInitializesMeta(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	n, ok := g.Node("a")
	if !ok {
		t.Fatal("node a not found")
	}
	if n.Meta == nil {
		t.Error("Meta is nil after AddNode")
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"valid", Edge{From: "a", To: "b"}, nil},
		{"back edge", Edge{From: "b", To: "a"}, nil},
		{"self loop", Edge{From: "a", To: "a"}, nil},
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
}

func TestDegree(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "c"})
	_ = g.AddEdge(Edge{From: "c", To: "a"})
	_ = g.AddEdge(Edge{From: "b", To: "b"})

	tests := []struct {
		id            string
		in, out, both int
	}{
		{"a", 1, 2, 3},
		{"b", 2, 1, 3},
		{"c", 1, 1, 2},
		{"missing", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := g.InDegree(tt.id); got != tt.in {
				t.Errorf("InDegree = %d, want %d", got, tt.in)
			}
			if got := g.OutDegree(tt.id); got != tt.out {
				t.Errorf("OutDegree = %d, want %d", got, tt.out)
			}
			if got := g.Degree(tt.id); got != tt.both {
				t.Errorf("Degree = %d, want %d", got, tt.both)
			}
		})
	}
}

func TestNodesSortedByID(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"delta", "alpha", "charlie", "bravo"} {
		_ = g.AddNode(Node{ID: id})
	}

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	want := []string{"alpha", "bravo", "charlie", "delta"}
	if !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	g := New(Metadata{"name": "orig"})
	_ = g.AddNode(Node{ID: "a", Meta: Metadata{"degree": 1}})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	c := g.Clone()
	_ = c.AddNode(Node{ID: "c"})
	_ = c.AddEdge(Edge{From: "b", To: "c"})
	n, _ := c.Node("a")
	n.Meta["degree"] = 99
	c.Meta()["name"] = "copy"

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("original changed: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	orig, _ := g.Node("a")
	if orig.Meta["degree"] != 1 {
		t.Errorf("original node meta changed: %v", orig.Meta["degree"])
	}
	if g.Meta()["name"] != "orig" {
		t.Errorf("original graph meta changed: %v", g.Meta()["name"])
	}
	if c.Degree("b") != 2 {
		t.Errorf("clone Degree(b) = %d, want 2", c.Degree("b"))
	}
}

func TestValidate(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() on cyclic graph = %v, want nil", err)
	}

	g.edges = append(g.edges, Edge{From: "a", To: "ghost"})
	if err := g.Validate(); !errors.Is(err, ErrInvalidEdgeEndpoint) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidEdgeEndpoint)
	}

	bad := New(nil)
	_ = bad.AddNode(Node{ID: " padded "})
	if err := bad.Validate(); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidNodeID)
	}
}

func TestGuardedConcurrentAccess(t *testing.T) {
	shared := NewGuarded(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = shared.Write(func(g *DAG) error {
				return g.AddNode(Node{ID: string(rune('a' + i))})
			})
			_ = shared.Read(func(g *DAG) error {
				_ = g.Nodes()
				return nil
			})
		}(i)
	}
	wg.Wait()

	var n int
	_ = shared.Read(func(g *DAG) error {
		n = g.NodeCount()
		return nil
	})
	if n != 8 {
		t.Errorf("NodeCount() = %d, want 8", n)
	}
}

func TestGuardedReplace(t *testing.T) {
	shared := NewGuarded(New(nil))
	next := New(nil)
	_ = next.AddNode(Node{ID: "a"})
	shared.Replace(next)

	var n int
	_ = shared.Read(func(g *DAG) error {
		n = g.NodeCount()
		return nil
	})
	if n != 1 {
		t.Errorf("NodeCount() after Replace = %d, want 1", n)
	}

	shared.Replace(nil)
	_ = shared.Read(func(g *DAG) error {
		n = g.NodeCount()
		return nil
	})
	if n != 0 {
		t.Errorf("NodeCount() after Replace(nil) = %d, want 0", n)
	}
}

func TestGuardedPropagatesError(t *testing.T) {
	shared := NewGuarded(New(nil))
	want := errors.New("boom")
	if err := shared.Read(func(*DAG) error { return want }); !errors.Is(err, want) {
		t.Errorf("Read() = %v, want %v", err, want)
	}
	if err := shared.Write(func(*DAG) error { return want }); !errors.Is(err, want) {
		t.Errorf("Write() = %v, want %v", err, want)
	}
}
