package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/astviz/pkg/graph"
	"github.com/matzehuels/astviz/pkg/render/nodelink"
)

// Render generates one artifact from a graph projection and its DOT source.
// It only reads g, so several formats may be rendered concurrently.
func Render(ctx context.Context, g *graph.Graph, dot, format string, scale float64) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	var data []byte
	var err error
	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		if scale == 0 {
			scale = DefaultScale
		}
		data, err = nodelink.RenderPNG(ctx, dot, scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case FormatDOT:
		data = []byte(dot)
	case FormatJSON:
		data, err = graph.MarshalGraph(g)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
