// Package hive computes hive plot layouts.
//
// A hive plot places every node of a graph on one of several straight axes
// radiating from a common origin. Which axis a node lands on is decided by
// an axis metric; how far along the axis it sits is decided by a node-order
// metric. The result is a deterministic 2-D coordinate per node.
//
// # Algorithm
//
// A layout pass runs four stages in strict sequence:
//
//  1. [Classify] bins the axis metric values against thresholds derived
//     from their mean and produces a count per axis.
//  2. [Partition] sorts nodes by axis value (descending, ties by ID) and
//     slices the sorted sequence into contiguous groups of those counts.
//  3. [Geometry] computes each axis' angle, integer endpoint and scale on a
//     canvas of the configured radius.
//  4. [Place] positions each group's nodes along its axis in proportion to
//     their node-order value between the group's extremes.
//
// Note that stage 2 uses only the per-axis counts from stage 1, not each
// node's individual bin. A node can therefore land on a different axis
// than the one its own value was classified into. This is the defined
// behavior and layouts depend on it.
//
// # Usage
//
//	snap, err := hive.Capture(g, metric.Degree, metric.Degree)
//	if err != nil {
//	    return err
//	}
//	coords := hive.Collect{}
//	res, err := hive.Layout(snap, hive.DefaultOptions(), coords)
//
// [Layout] calls the sink only after every coordinate has been computed, so
// a failed pass never leaves partial results behind.
//
// # Concurrency
//
// Everything in this package is synchronous and allocation-local. Reading
// a shared graph is the caller's concern: run [Capture] on a graph no one
// else is writing, such as a copy taken inside [dag.Guarded.Read], and the
// remainder of the pass works on the immutable snapshot without holding
// any lock.
package hive
