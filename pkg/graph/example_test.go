package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/hiveplot/pkg/dag"
	"github.com/matzehuels/hiveplot/pkg/graph"
)

func ExampleWriteGraph() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Meta: dag.Metadata{"betweenness": 0.5}})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "meta": {
	//         "betweenness": 0.5
	//       }
	//     },
	//     {
	//       "id": "b"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "a",
	//       "to": "b"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	yamlData := `
nodes:
  - id: hub
    meta: {betweenness: 0.9}
  - id: leaf
    meta: {betweenness: 0.1}
edges:
  - {from: hub, to: leaf}
`
	g, err := graph.ReadGraph(strings.NewReader(yamlData), graph.FormatYAML)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	hub, _ := g.Node("hub")
	fmt.Println("Hub betweenness:", hub.Meta["betweenness"])
	// Output:
	// Nodes: 2
	// Edges: 1
	// Hub betweenness: 0.9
}
