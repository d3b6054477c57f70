// Package ast rehydrates serialized abstract syntax trees.
//
// # Overview
//
// A language service serializes its parse trees as JSON where every node
// carries a type marker and cross-references are replaced by path
// placeholders:
//
//	{
//	  "$type": "StateMachine",
//	  "init": {"$ref": "#/states@0"},
//	  "states": [
//	    {"$type": "State", "name": "PowerOff"}
//	  ]
//	}
//
// [Deserialize] parses that text, classifies every value once, and relinks the
// tree: each node learns its container (parent node, property name, and index
// within a sequence), and each [Reference] gets its Ref slot pointed at the
// node its path denotes.
//
// # Values
//
// Node properties hold a closed set of [Value] variants:
//
//   - [Scalar]: any JSON value that is neither a node nor a reference (raw bytes preserved)
//   - *[Node]: a single child node
//   - *[Reference]: a single cross-reference placeholder
//   - [List]: a sequence whose elements are nodes, references, or scalars
//
// Shape detection happens at decode time. Inside sequences a value carrying
// the reference key is a reference first; elsewhere a value carrying the type
// key is a node first. Anything else stays an opaque [Scalar] and is never
// walked.
//
// # Paths
//
// Reference paths have the form "#/segment/segment". A segment is either a
// property name or "name@index" for an element of a sequence:
//
//	n := ast.Resolve(root, "#/states@1/transitions@0")
//
// Unresolvable paths yield nil; they are not errors.
//
// # Keys
//
// Marker keys are configurable through [Keys]. [DefaultKeys] matches the
// Langium wire format ($type, $ref, $container).
//
// # Concurrency
//
// A linked tree is safe for concurrent reads. Graph projection stamps dense
// ids onto nodes, so concurrent projections of the same tree must be
// serialized by the caller.
package ast
