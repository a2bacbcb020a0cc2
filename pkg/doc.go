// Package pkg provides the core libraries for hiveplot graph layouts.
//
// # Overview
//
// Hiveplot places the nodes of a directed graph on a small number of radial
// axes. An axis metric (betweenness by default) bins every node to an axis
// by comparing it against multiples of the mean; a node-order metric
// (degree by default) then positions the node along its axis. The pkg
// directory is organized into four areas:
//
//  1. [hive] - The layout algorithm (classify, partition, geometry, place)
//  2. [dag], [metric] - Graph structure and metric resolution
//  3. [graph], [export/dot] - Serialization of graphs and layouts
//  4. [pipeline], [cache], [store] - Orchestration, caching and write-back
//
// # Architecture
//
// The typical data flow through hiveplot:
//
//	graph.json / graph.yaml
//	         ↓
//	    [graph] package (decode into a [dag.DAG])
//	         ↓
//	    [metric] package (select axis and node-order resolvers)
//	         ↓
//	    [hive] package (snapshot → classify → partition → place)
//	         ↓
//	    layout JSON, DOT, SQLite positions, MongoDB documents
//
// # Quick Start
//
// Lay out a graph and collect the coordinates:
//
//	import (
//	    "github.com/matzehuels/hiveplot/pkg/graph"
//	    "github.com/matzehuels/hiveplot/pkg/hive"
//	    "github.com/matzehuels/hiveplot/pkg/metric"
//	)
//
//	g, _ := graph.ReadGraphFile("services.yaml")
//	opts := hive.DefaultOptions()
//
//	reg := metric.NewRegistry()
//	axis, _ := reg.Select(opts.AxisMetric, metric.DefaultAxisMetric, g)
//	order, _ := reg.Select(opts.NodeOrderMetric, metric.DefaultOrderMetric, g)
//
//	snap, _ := hive.Capture(g, axis.Resolver, order.Resolver)
//	coords := hive.Collect{}
//	res, err := hive.Layout(snap, opts, coords)
//
// The [pipeline] package wraps these steps with caching, hooks and
// writers, and is what the CLI and the HTTP API use.
//
// # Main Packages
//
// [hive] - The layout pass. Pure and synchronous: the same snapshot and
// options always produce bit-identical coordinates, and the sink is only
// written once the whole pass has succeeded.
//
// [dag] - Directed graph with node metadata. Cycles are allowed. [dag.Guarded]
// shares a graph between goroutines; a layout copies it under the read lock.
//
// [metric] - Structural metrics (degree, in-degree, out-degree) and
// attribute metrics read from node metadata, with aliases for the column
// names written by common graph tools.
//
// [graph] - JSON and YAML graph input; the layout document format.
//
// [export/dot] - Graphviz export with pinned node positions, for rendering
// with neato -n2.
//
// [pipeline] - Load → layout → write orchestration with a content-addressed
// layout cache.
//
// [cache] - Cache backends: file, Redis, snappy-compressed wrapper and a
// no-op cache.
//
// [store] - Write-back stores: SQLite node positions and MongoDB layout
// documents.
//
// [observability] - Hook registry for pipeline, cache and HTTP events;
// [observability/prom] exports them as Prometheus metrics.
//
// [httputil] - JSON helpers and middleware for the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                     # All tests
//	go test ./pkg/hive/...                # Specific package
//	go test -run Example ./pkg/...        # Examples only
//	HIVEPLOT_TEST_REDIS_URL=redis://localhost:6379/15 go test ./pkg/cache/...
//	HIVEPLOT_TEST_MONGO_URI=mongodb://localhost:27017 go test ./pkg/store/...
//
// [hive]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/hive
// [dag]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/dag
// [dag.DAG]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/dag#DAG
// [dag.Guarded]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/dag#Guarded
// [metric]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/metric
// [graph]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/graph
// [export/dot]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/export/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/observability/prom
// [httputil]: https://pkg.go.dev/github.com/matzehuels/hiveplot/pkg/httputil
package pkg
