package graph

import (
	"encoding/json"

	"github.com/matzehuels/astviz/pkg/color"
)

// ForceGraph is the graph shape expected by 3D force-graph front-ends.
type ForceGraph struct {
	Nodes []ForceNode `json:"nodes"`
	Links []ForceLink `json:"links"`
}

// ForceNode is a force-graph vertex. Front-ends group by NodeType.
type ForceNode struct {
	ID       int    `json:"id"`
	NodeType string `json:"nodeType"`
	Color    string `json:"color"`
}

// ForceLink is a force-graph link between two node ids.
type ForceLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// ToForceGraph maps g onto the force-graph shape.
func ToForceGraph(g *Graph) ForceGraph {
	fg := ForceGraph{
		Nodes: make([]ForceNode, len(g.Nodes)),
		Links: make([]ForceLink, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		fg.Nodes[i] = ForceNode{ID: g.ID(n), NodeType: n.Type, Color: color.ToHex(n.Type)}
	}
	for i, e := range g.Edges {
		fg.Links[i] = ForceLink{Source: g.ID(e.From), Target: g.ID(e.To)}
	}
	return fg
}

// MarshalForceGraph encodes the force-graph form of g as compact JSON.
func MarshalForceGraph(g *Graph) ([]byte, error) {
	return json.Marshal(ToForceGraph(g))
}
