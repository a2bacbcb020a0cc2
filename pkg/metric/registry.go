package metric

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/hiveplot/pkg/dag"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Canonical metric names.
const (
	NameDegree       = "degree"
	NameInDegree     = "indegree"
	NameOutDegree    = "outdegree"
	NameBetweenness  = "betweenness"
	NameCloseness    = "closeness"
	NameEccentricity = "eccentricity"
)

// Default metric names used when a requested metric cannot be resolved.
const (
	DefaultAxisMetric  = NameBetweenness
	DefaultOrderMetric = NameDegree
)

// Registry maps metric names and their aliases to resolvers.
// A Registry is safe for concurrent reads once populated.
type Registry struct {
	resolvers map[string]Resolver
	aliases   map[string]string
}

// Selection is the outcome of [Registry.Select].
type Selection struct {
	Requested string   // Name as supplied by the caller
	Name      string   // Canonical name actually used
	Resolver  Resolver // Resolver for Name
	FellBack  bool     // True if Requested was not usable and the fallback was chosen
}

// NewRegistry returns a registry holding the built-in metrics.
func NewRegistry() *Registry {
	r := &Registry{
		resolvers: make(map[string]Resolver),
		aliases:   make(map[string]string),
	}
	r.Register(NameDegree, Degree)
	r.Register(NameInDegree, InDegree, "in_degree", "in-degree")
	r.Register(NameOutDegree, OutDegree, "out_degree", "out-degree")

	// Attribute keys cover the column names written by common graph tools,
	// including their historical misspellings.
	r.Register(NameBetweenness, Attribute{
		Key:        NameBetweenness,
		Alternates: []string{"betweenesscentrality", "betweennesscentrality", "betweenness_centrality"},
	}, "betweenesscentrality", "betweennesscentrality", "betweenness_centrality")
	r.Register(NameCloseness, Attribute{
		Key:        NameCloseness,
		Alternates: []string{"closnesscentrality", "closenesscentrality", "closeness_centrality"},
	}, "closnesscentrality", "closenesscentrality", "closeness_centrality")
	r.Register(NameEccentricity, Attribute{
		Key:        NameEccentricity,
		Alternates: []string{"eccentricty"},
	}, "eccentricty")
	return r
}

// Register adds a resolver under a canonical name and optional aliases.
// Names are case-insensitive. Registering an existing name replaces it.
func (r *Registry) Register(name string, res Resolver, aliases ...string) {
	name = normalize(name)
	r.resolvers[name] = res
	for _, a := range aliases {
		r.aliases[normalize(a)] = name
	}
}

// Lookup returns the resolver and canonical name for a registered metric
// name or alias.
func (r *Registry) Lookup(name string) (Resolver, string, bool) {
	name = normalize(name)
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	res, ok := r.resolvers[name]
	return res, name, ok
}

// Names returns the canonical names of all registered metrics, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.resolvers))
}

// Select chooses the resolver for a requested metric name.
//
// Registered names and aliases resolve to their canonical metric. A name
// that is not registered but is a numeric attribute on at least one node
// of g becomes an attribute metric. Anything else, including the empty
// name, falls back to fallback, which must itself be registered.
func (r *Registry) Select(name, fallback string, g *dag.DAG) (Selection, error) {
	sel := Selection{Requested: name}

	if res, canonical, ok := r.Lookup(name); ok {
		sel.Name, sel.Resolver = canonical, res
		return sel, nil
	}

	if key := strings.TrimSpace(name); key != "" && g != nil && herrors.ValidateMetricName(key) == nil {
		if slices.Contains(AttributeNames(g), key) {
			sel.Name, sel.Resolver = key, Attribute{Key: key}
			return sel, nil
		}
	}

	res, canonical, ok := r.Lookup(fallback)
	if !ok {
		return Selection{}, herrors.New(herrors.ErrCodeInvalidMetric,
			"metric %q is unknown and fallback %q is not registered", name, fallback)
	}
	sel.Name, sel.Resolver, sel.FellBack = canonical, res, true
	return sel, nil
}

// AttributeNames lists the metadata keys that hold a finite numeric value
// on at least one node of g, sorted.
func AttributeNames(g *dag.DAG) []string {
	seen := make(map[string]struct{})
	for _, n := range g.Nodes() {
		for k, v := range n.Meta {
			if _, ok := ToFloat(v); ok {
				seen[k] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
