package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/graph"
	"github.com/matzehuels/astviz/pkg/render/nodelink"
	"github.com/matzehuels/astviz/pkg/treemap"
)

// RefInfo describes one reference placeholder.
type RefInfo struct {
	// Path is the placeholder's path as written in the document.
	Path string `json:"path"`
	// Target is the canonical path of the resolved node, empty when unresolved.
	Target string `json:"target,omitempty"`
	// Text is the source text the reference was written as, if recorded.
	Text     string `json:"text,omitempty"`
	Resolved bool   `json:"resolved"`
}

// NodeSummary describes a single node without its subtree.
type NodeSummary struct {
	Type       string   `json:"type"`
	Path       string   `json:"path"`
	Name       string   `json:"name,omitempty"`
	Properties []string `json:"properties"`
	Children   int      `json:"children"`
}

// Refs lists every reference placeholder under root in pre-order.
func Refs(root *ast.Node) []RefInfo {
	refs := ast.CollectReferences(root)
	out := make([]RefInfo, len(refs))
	for i, r := range refs {
		out[i] = RefInfo{Path: r.Path, Text: r.Text(), Resolved: r.Resolved()}
		if r.Resolved() {
			out[i].Target = ast.PathOf(r.Ref)
		}
	}
	return out
}

// Summarize describes n. It returns nil for a nil node.
func Summarize(n *ast.Node) *NodeSummary {
	if n == nil {
		return nil
	}
	s := &NodeSummary{Type: n.Type, Path: ast.PathOf(n), Properties: []string{}}
	s.Name, _ = n.String("name")
	for _, p := range n.Props() {
		s.Properties = append(s.Properties, p.Name)
	}
	s.Children = ast.Count(n) - 1
	return s
}

// Project encodes one projection of root.
//
// The graph projection stamps dense ids onto the tree, so a tree must not be
// projected from several goroutines at once.
func Project(root *ast.Node, kind string) ([]byte, error) {
	if err := ValidateProjection(kind); err != nil {
		return nil, err
	}
	switch kind {
	case ProjectionGraph:
		return graph.MarshalGraph(graph.FromAST(root))
	case ProjectionForceGraph:
		return graph.MarshalForceGraph(graph.FromAST(root))
	case ProjectionDOT:
		return []byte(nodelink.ToDOT(graph.FromAST(root))), nil
	case ProjectionTreemap:
		if root == nil {
			return nil, fmt.Errorf("treemap: empty tree")
		}
		return treemap.MarshalJSON(treemap.FromAST(root))
	case ProjectionRefs:
		if root == nil {
			return []byte("[]"), nil
		}
		return json.MarshalIndent(Refs(root), "", "  ")
	}
	return nil, ValidateProjection(kind)
}
