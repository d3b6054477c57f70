// Package nodelink renders graph projections as node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [graph.Graph] into Graphviz DOT source. Each AST node
// becomes a filled vertex labeled with its type and colored by
// [color.ToHex]; each containment edge becomes an arrow. The output is
// byte-stable, so it can be diffed and used as a golden fixture:
//
//	strict digraph {
//	0 [label="A" style=filled fillcolor="#007179" fontcolor=white fontsize=32]
//	1 [label="B" style=filled fillcolor="#005223" fontcolor=white fontsize=32]
//	0 -> 1
//	}
//
// There is no trailing newline.
//
// # Rendering
//
//	dot := nodelink.ToDOT(g)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
