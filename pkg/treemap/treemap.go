package treemap

import (
	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/color"
)

// Node is one tree-map entry.
type Node struct {
	Title    string `json:"title" yaml:"title"`
	Color    string `json:"color" yaml:"color"`
	Size     int    `json:"size" yaml:"size"`
	Children []Node `json:"children" yaml:"children"`
}

// FromAST builds the tree-map of the containment tree under n.
//
// Children appear in property order, and sequence elements in index order.
// FromAST keeps no state between calls and does not modify the tree.
func FromAST(n *ast.Node) Node {
	tm := Node{
		Title:    n.Type,
		Color:    color.ToHex(n.Type),
		Children: []Node{},
	}
	for _, p := range n.Props() {
		switch v := p.Value.(type) {
		case ast.List:
			for _, el := range v {
				if child, ok := el.(*ast.Node); ok {
					tm.Children = append(tm.Children, FromAST(child))
				}
			}
		case *ast.Node:
			tm.Children = append(tm.Children, FromAST(v))
		}
	}
	tm.Size = len(tm.Children) + 1
	return tm
}

// Count returns the number of entries in the tree-map rooted at n.
func (n Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Depth returns the number of levels below and including n.
func (n Node) Depth() int {
	deepest := 0
	for _, c := range n.Children {
		deepest = max(deepest, c.Depth())
	}
	return deepest + 1
}
