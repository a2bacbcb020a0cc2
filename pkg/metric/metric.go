package metric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Resolver returns the value of one metric for a node. Implementations
// must return a finite value or an error with code MISSING_METRIC.
type Resolver interface {
	Resolve(g *dag.DAG, n *dag.Node) (float64, error)
}

// Func adapts a plain function to the Resolver interface.
type Func func(g *dag.DAG, n *dag.Node) (float64, error)

// Resolve calls f.
func (f Func) Resolve(g *dag.DAG, n *dag.Node) (float64, error) { return f(g, n) }

// Degree resolves the total number of edges incident to a node.
var Degree Resolver = Func(func(g *dag.DAG, n *dag.Node) (float64, error) {
	return float64(g.Degree(n.ID)), nil
})

// InDegree resolves the number of edges pointing at a node.
var InDegree Resolver = Func(func(g *dag.DAG, n *dag.Node) (float64, error) {
	return float64(g.InDegree(n.ID)), nil
})

// OutDegree resolves the number of edges leaving a node.
var OutDegree Resolver = Func(func(g *dag.DAG, n *dag.Node) (float64, error) {
	return float64(g.OutDegree(n.ID)), nil
})

// Attribute reads a metric from node metadata. Key is tried first, then
// each of Alternates in order; the first key present on the node is used.
type Attribute struct {
	Key        string
	Alternates []string
}

// Resolve implements Resolver.
func (a Attribute) Resolve(_ *dag.DAG, n *dag.Node) (float64, error) {
	for _, key := range a.keys() {
		raw, ok := n.Meta[key]
		if !ok {
			continue
		}
		v, ok := ToFloat(raw)
		if !ok {
			return 0, herrors.New(herrors.ErrCodeMissingMetric,
				"node %q: metric %q is not a finite number (got %v)", n.ID, key, raw)
		}
		return v, nil
	}
	return 0, herrors.New(herrors.ErrCodeMissingMetric, "node %q has no value for metric %q", n.ID, a.Key)
}

func (a Attribute) keys() []string {
	return append([]string{a.Key}, a.Alternates...)
}

// ToFloat converts a metadata value to a finite float64. It accepts Go
// numeric kinds, json.Number and numeric strings. NaN and infinities are
// rejected.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
