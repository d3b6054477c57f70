// Package treemap projects a linked AST into a nested tree-map record.
//
// The record follows the d3 "flare" layout that hierarchical front-ends
// consume: every node has a title (its AST type), a color derived from that
// type, a size, and its contained children.
//
//	root, _ := ast.Deserialize(data)
//	tm := treemap.FromAST(root)
//	data, _ := json.Marshal(tm)
//
// Size is the number of direct children plus one, so a leaf has size 1.
// Cross-references are never followed.
//
// Besides JSON, a tree-map can be written as YAML with [MarshalYAML] or as an
// indented text tree with [WriteText].
package treemap
