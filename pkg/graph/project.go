package graph

import (
	"github.com/matzehuels/astviz/pkg/ast"
)

// Graph is the node/edge projection of an AST.
type Graph struct {
	// Nodes holds every AST node in pre-order; Nodes[i] has id i.
	Nodes []*ast.Node
	// Edges holds one containment edge per non-root node, in discovery order.
	Edges []Edge
}

// Edge is a containment link from a parent to one of its children.
type Edge struct {
	From *ast.Node
	To   *ast.Node
}

// counter hands out dense ids. It is threaded through the walk explicitly
// so the ids depend only on the traversal.
type counter struct {
	next int
}

// FromAST projects the containment tree under root into a graph.
//
// Properties are visited in source order and sequence elements in index
// order. Scalars and references are skipped. For each child the edge is
// appended before the child is visited, and the counter is incremented before
// the child receives its id.
func FromAST(root *ast.Node) *Graph {
	g := &Graph{}
	if root == nil {
		return g
	}
	g.visit(root, &counter{})
	return g
}

func (g *Graph) visit(n *ast.Node, c *counter) {
	n.SetDenseID(c.next)
	g.Nodes = append(g.Nodes, n)

	for _, p := range n.Props() {
		switch v := p.Value.(type) {
		case ast.List:
			for _, el := range v {
				if child, ok := el.(*ast.Node); ok {
					g.descend(n, child, c)
				}
			}
		case *ast.Node:
			g.descend(n, v, c)
		}
	}
}

func (g *Graph) descend(parent, child *ast.Node, c *counter) {
	g.Edges = append(g.Edges, Edge{From: parent, To: child})
	c.next++
	g.visit(child, c)
}

// ID returns the dense id stamped on n by the projection.
func (g *Graph) ID(n *ast.Node) int { return n.DenseID() }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Children returns the direct children of n, in edge order.
func (g *Graph) Children(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, e := range g.Edges {
		if e.From == n {
			out = append(out, e.To)
		}
	}
	return out
}

// Types returns the distinct node types in first-seen order.
func (g *Graph) Types() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range g.Nodes {
		if !seen[n.Type] {
			seen[n.Type] = true
			out = append(out, n.Type)
		}
	}
	return out
}
