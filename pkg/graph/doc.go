// Package graph projects a linked AST into a flat node/edge graph.
//
// # Projection
//
// [FromAST] walks the containment tree in pre-order and records one node per
// AST node and one edge per parent/child containment link. Cross-references
// never produce edges. Each node is stamped with a dense integer id equal to
// its pre-order position, so the root is 0 and ids are unique within one
// projection:
//
//	root, _ := ast.Deserialize(data)
//	g := graph.FromAST(root)
//	g.ID(g.Nodes[3]) // 3
//
// The ids live on the AST nodes themselves ([ast.Node.DenseID]); projecting
// the same tree again overwrites them with the same values.
//
// # Serialization
//
// Graphs use a simple node-link JSON format with the dense ids as keys:
//
//	{
//	  "nodes": [{"id": 0, "type": "Model", "path": "#", "color": "#096939"}],
//	  "edges": [{"from": 0, "to": 1}]
//	}
//
// [MarshalGraph] and [WriteGraph] produce it. [ToForceGraph] produces the
// shape consumed by 3D force-graph front-ends instead.
//
// # Concurrency
//
// A projection mutates the ids of the tree it walks. Do not project the same
// tree from two goroutines at once; reading a finished Graph is safe.
package graph
