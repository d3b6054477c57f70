// Package pkg provides the core libraries for astviz, a visualizer for
// Langium-style abstract syntax trees.
//
// # Overview
//
// astviz reads the JSON serialization of a parsed document (nodes tagged
// with $type, cross-references tagged with $ref) and projects it into
// diagrams: a node-link graph, a force-graph JSON document, a treemap, or a
// Graphviz rendering in DOT, SVG, PDF and PNG. The pkg directory is organized
// into four areas:
//
//  1. [ast] - The AST model (deserialize, link containers, resolve references)
//  2. [graph], [treemap] - Projections of the tree into diagram data
//  3. [render] - Graphviz output and format conversion
//  4. [pipeline] - Orchestration (deserialize → project → render) with caching
//
// # Architecture
//
// The typical data flow through astviz:
//
//	AST JSON (file, stdin, HTTP body, live document change)
//	         ↓
//	    [ast] package (deserialize + link + resolve)
//	         ↓
//	    [graph] package (dense ids, edges, type colors)
//	         ↓
//	    [render/nodelink] package (DOT text, Graphviz layout)
//	         ↓
//	    DOT/SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Deserialize an AST and print its DOT projection:
//
//	import (
//	    "github.com/matzehuels/astviz/pkg/ast"
//	    "github.com/matzehuels/astviz/pkg/graph"
//	    "github.com/matzehuels/astviz/pkg/render/nodelink"
//	)
//
//	root, err := ast.Deserialize(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(nodelink.ToDOT(graph.FromAST(root)))
//
// Or let the pipeline handle projection, rendering and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// [ast] - The tree model. [ast.Deserialize] parses JSON, links every node to
// its container, and resolves "#/path@index" references against the root.
// [ast.Serialize] writes the tree back without container back-pointers.
//
// [color] - Deterministic type-name to color mapping used by every projection.
//
// [graph] - Node-link projection with pre-order dense ids, plus the
// force-graph JSON shape.
//
// [treemap] - Hierarchical title/children/size projection with JSON, YAML
// and tree-text output.
//
// [statemachine] - Interpreter for the state machine example language:
// current state, enabled events and transitions over a deserialized AST.
//
// [render/nodelink] - DOT generation and Graphviz rendering to SVG, PDF, PNG.
//
// [pipeline] - Complete visualization pipeline used by the CLI, the HTTP
// server and the live watcher. Ensures consistent behavior across entry points.
//
// [cache] - Content-addressed artifact cache with null, file, LRU and Redis
// backends.
//
// [notify] - Live document-change channel over WebSocket: a hub that pushes
// projections to clients and a subscriber that follows a remote hub.
//
// [observability] - Hook interfaces for pipeline, cache and server events.
//
// [errors] - Coded errors shared by every package, with HTTP status mapping.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/ast/...      # Specific package
//	go test -run Example       # Examples only
//
// Redis-backed cache tests run when ASTVIZ_TEST_REDIS_URL is set.
//
// [ast]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/ast
// [color]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/color
// [graph]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/graph
// [treemap]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/treemap
// [statemachine]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/statemachine
// [render]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/cache
// [notify]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/notify
// [observability]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/astviz/pkg/errors
package pkg
