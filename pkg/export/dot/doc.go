// Package dot exports hive plot layouts as Graphviz DOT.
//
// # Overview
//
// The exported graph pins every node to its computed coordinate with
// pos="x,y!", so Graphviz only has to draw it:
//
//	neato -n2 -Tsvg plot.dot > plot.svg
//
// Axes are drawn as uncoloured edges from a hidden origin node to a hidden
// endpoint node per axis. Nodes are filled with the colour of their axis.
//
// # Usage
//
//	src, err := dot.Export(g, layout, dot.Options{Axes: true})
//	if err != nil {
//	    return err
//	}
//	err = dot.WriteFile("plot.dot", src)
//
// [Export] parses its own output with [github.com/goccy/go-graphviz] before
// returning, so a layout containing unusual node IDs never produces a file
// Graphviz would reject. Rendering to images is left to Graphviz itself.
package dot
