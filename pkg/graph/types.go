package graph

import (
	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/color"
)

// Document is the node-link serialization of a [Graph].
type Document struct {
	Nodes []NodeData `json:"nodes"`
	Edges []EdgeData `json:"edges"`
}

// NodeData is one serialized node.
type NodeData struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Path  string `json:"path"`
	Color string `json:"color"`
	// Name is the node's "name" property, when it has a string one.
	Name string `json:"name,omitempty"`
}

// EdgeData is one serialized edge.
type EdgeData struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Export converts g into its serialized form.
func (g *Graph) Export() Document {
	doc := Document{
		Nodes: make([]NodeData, len(g.Nodes)),
		Edges: make([]EdgeData, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		name, _ := n.String("name")
		doc.Nodes[i] = NodeData{
			ID:    g.ID(n),
			Type:  n.Type,
			Path:  ast.PathOf(n),
			Color: color.ToHex(n.Type),
			Name:  name,
		}
	}
	for i, e := range g.Edges {
		doc.Edges[i] = EdgeData{From: g.ID(e.From), To: g.ID(e.To)}
	}
	return doc
}
