package graph

import (
	"bytes"
	"encoding/json"
	"maps"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Input formats understood by [ReadGraph].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// metaLabel stores the display label in node metadata for round-trip fidelity.
const metaLabel = "_label"

// =============================================================================
// Graph - Input Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for input graphs.
// Used for files, API request bodies and cached inputs.
//
// Node metadata carries the precomputed metrics a layout reads; graph
// metadata (name, source tool) is carried through unchanged.
type Graph struct {
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
	Nodes []Node         `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge         `json:"edges" yaml:"edges" bson:"edges"`
}

// Node is a serialized graph vertex.
type Node struct {
	ID    string         `json:"id" yaml:"id" bson:"id"`
	Label string         `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a serialized directed edge.
type Edge struct {
	From string `json:"from" yaml:"from" bson:"from"`
	To   string `json:"to" yaml:"to" bson:"to"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a graph to its serialization format.
// Nodes are sorted by ID for deterministic output; edges keep insertion order.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Meta:  cleanMeta(g.Meta()),
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// ToDAG converts a Graph to a DAG.
// Node IDs are validated; duplicate IDs, IDs with surrounding whitespace
// and dangling edges are INVALID_INPUT.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(maps.Clone(gj.Meta))

	for _, nj := range gj.Nodes {
		if err := herrors.ValidateNodeID(nj.ID); err != nil {
			return nil, err
		}
		n := dag.Node{ID: nj.ID, Meta: maps.Clone(nj.Meta)}
		if n.Meta == nil {
			n.Meta = dag.Metadata{}
		}
		if nj.Label != "" {
			n.Meta[metaLabel] = nj.Label
		}
		if err := d.AddNode(n); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "add node %s", nj.ID)
		}
	}

	for _, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge{From: ej.From, To: ej.To}); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "add edge %s→%s", ej.From, ej.To)
		}
	}

	if err := d.Validate(); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "invalid graph")
	}
	return d, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
// Numbers in node metadata are kept as json.Number.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := decodeJSON(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeFromDAG(n *dag.Node) Node {
	node := Node{ID: n.ID, Meta: cleanMeta(n.Meta)}
	if label, ok := n.Meta[metaLabel].(string); ok {
		node.Label = label
	}
	return node
}

// cleanMeta returns a copy of metadata without internal keys, or nil if
// nothing public remains.
func cleanMeta(m map[string]any) map[string]any {
	out := maps.Clone(m)
	delete(out, metaLabel)
	if len(out) == 0 {
		return nil
	}
	return out
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
