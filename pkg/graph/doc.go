// Package graph provides serialization types for input graphs and computed
// hive plot layouts.
//
// This package defines the wire format used for files, HTTP request and
// response bodies, caching and the document store.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/dag.DAG: Internal graph representation
//   - pkg/hive.Result: Internal outcome of a layout pass
//
// Use [FromDAG]/[ToDAG] and [NewLayout] to convert between them.
//
// # Graph Serialization
//
// Graphs use a simple node-link format. Node metadata holds the metrics a
// layout can read:
//
//	{
//	  "nodes": [
//	    {"id": "a", "meta": {"betweenness": 0.42, "closeness": 0.61}},
//	    {"id": "b", "meta": {"betweenness": 0.07}}
//	  ],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// The same schema is accepted as YAML. [ReadGraphFile] picks the decoder
// from the file extension. JSON numbers are decoded as json.Number so
// large integers survive intact; pkg/metric converts them on demand.
//
// # Layout Serialization
//
// A [Layout] records the options used, the resolved metric names, the
// classification summary (counts, mean, thresholds), the axis geometry and
// one entry per node with its axis, coordinate and ratio. Struct tags cover
// both JSON and BSON so the same value is stored in MongoDB unchanged.
//
// # Errors
//
// Decoding failures carry INVALID_FORMAT, structural problems in the input
// carry INVALID_INPUT and missing files carry FILE_NOT_FOUND (see
// pkg/errors).
package graph
