package notify

import (
	"context"

	"github.com/matzehuels/astviz/pkg/pipeline"
)

// PipelineProjector projects changes through a pipeline runner, so repeated
// content is served from the runner's cache.
type PipelineProjector struct {
	Runner  *pipeline.Runner
	Options pipeline.Options
}

// Project implements Projector with the force-graph and tree-map projections.
func (p PipelineProjector) Project(ctx context.Context, change DocumentChange) (Projection, error) {
	data := []byte(change.Content)
	g, err := p.Runner.Projection(ctx, data, pipeline.ProjectionForceGraph, p.Options)
	if err != nil {
		return Projection{}, err
	}
	tm, err := p.Runner.Projection(ctx, data, pipeline.ProjectionTreemap, p.Options)
	if err != nil {
		return Projection{}, err
	}
	return Projection{Graph: g, Treemap: tm}, nil
}
