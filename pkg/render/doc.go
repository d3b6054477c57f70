// Package render converts rendered SVG diagrams to other formats.
//
// # Overview
//
// Graph projections are rendered to SVG by the [nodelink] subpackage. This
// package holds the format conversions shared by every renderer:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ToPDF] and [ToPNG] use the external rsvg-convert tool (from librsvg).
//
// [nodelink]: github.com/matzehuels/astviz/pkg/render/nodelink
package render
