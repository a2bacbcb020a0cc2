// Package metric resolves a scalar value per node for a named metric.
//
// A hive plot needs two numbers per node: the axis metric, which decides
// which axis a node lands on, and the node-order metric, which decides how
// far along that axis it sits. Both are looked up through a [Resolver].
//
// # Built-in Metrics
//
// Structural metrics are computed from the graph itself:
//
//   - degree: incoming plus outgoing edges
//   - indegree: incoming edges
//   - outdegree: outgoing edges
//
// Centrality metrics are not computed here. They are read from node
// metadata, where a network analysis tool is expected to have stored them:
//
//   - betweenness (also betweenesscentrality, betweenness_centrality)
//   - closeness (also closnesscentrality, closeness_centrality)
//   - eccentricity (also eccentricty)
//
// Any other numeric node attribute can be used as a metric by name.
//
// # Selection
//
// [Registry.Select] maps a user-supplied name to a resolver. Unknown names
// that are not attributes of the graph fall back to a default, and the
// returned [Selection] records that the fallback happened so callers can
// report it.
package metric
