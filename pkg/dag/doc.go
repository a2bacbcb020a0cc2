// Package dag provides the directed graph consumed by hive plot layouts.
//
// # Overview
//
// A graph is a set of uniquely identified nodes joined by directed edges.
// Each node carries a [Metadata] map that holds the precomputed metrics a
// layout reads, for example betweenness or closeness centrality exported
// from a network analysis tool. Structural metrics (degree, in-degree,
// out-degree) are derived from the edge lists.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Node IDs must be unique and edges can only connect
// existing nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "a", Meta: dag.Metadata{"betweenness": 0.4}})
//	g.AddNode(dag.Node{ID: "b"})
//	g.AddEdge(dag.Edge{From: "a", To: "b"})
//
// Query the graph with [DAG.Node], [DAG.Degree] and related methods. [DAG.Nodes] always returns nodes sorted by ID so every
// consumer sees the same iteration order.
//
// # Cycles
//
// Hive plots place nodes on radial axes and impose no ordering on edges, so
// cycles, self loops and parallel edges are all accepted. [DAG.Validate]
// checks referential integrity only.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. [Guarded] wraps a graph
// with a read/write lock and only hands it out inside a callback. A layout
// pass copies a shared graph with [DAG.Clone] inside [Guarded.Read] and
// works on that copy while other goroutines keep editing the original.
package dag
