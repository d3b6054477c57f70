// Package pipeline provides the deserialize → project → render flow shared by
// the astviz CLI and HTTP server.
//
// By centralizing this logic, every entry point decodes, caches, and renders a
// serialized AST the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Deserialize: Decode the JSON document and relink containers and references
//  2. Project: Build a graph, tree-map, DOT, or reference listing from the tree
//  3. Render: Lay the DOT projection out with Graphviz (SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg", "dot"}}
//	result, err := runner.Execute(ctx, data, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	root, err := runner.Deserialize(ctx, data, ast.DefaultKeys)
//	out, err := pipeline.Project(root, pipeline.ProjectionTreemap)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// Format constants for rendered artifacts.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json" // node-link graph document
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Projection kinds.
const (
	ProjectionGraph      = "graph"      // node-link document
	ProjectionForceGraph = "forcegraph" // {nodes, links} for force-directed viewers
	ProjectionTreemap    = "treemap"
	ProjectionDOT        = "dot"
	ProjectionRefs       = "refs"
)

// ValidProjections is the set of supported projection kinds.
var ValidProjections = map[string]bool{
	ProjectionGraph:      true,
	ProjectionForceGraph: true,
	ProjectionTreemap:    true,
	ProjectionDOT:        true,
	ProjectionRefs:       true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Keys selects the wire format's marker fields. Zero means ast.DefaultKeys.
	Keys ast.Keys `json:"-"`

	// Refresh skips cache lookups; results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Root is the relinked tree.
	Root *ast.Node

	// ContentHash is the SHA-256 of the input bytes.
	ContentHash string

	// Graph is the containment projection the artifacts were rendered from.
	Graph *graph.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	EdgeCount       int
	ReferenceCount  int
	UnresolvedCount int
	DeserializeTime time.Duration
	ProjectTime     time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProjection checks that a projection kind is valid.
func ValidateProjection(kind string) error {
	if !ValidProjections[kind] {
		return errors.New(errors.ErrCodeInvalidProjection,
			"invalid projection: %q (must be one of: graph, forcegraph, treemap, dot, refs)", kind)
	}
	return nil
}

// ValidateKeys checks that the marker keys are usable.
func ValidateKeys(k ast.Keys) error {
	if k.Type == "" || k.Ref == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "type and ref keys are required")
	}
	if k.Type == k.Ref {
		return errors.New(errors.ErrCodeInvalidConfig, "type and ref keys must differ, both are %q", k.Type)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateKeys(o.Keys); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Keys == (ast.Keys{}) {
		o.Keys = ast.DefaultKeys
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ProjectionKeyOpts returns cache key options for a projection.
func (o *Options) ProjectionKeyOpts(kind string) cache.ProjectionKeyOpts {
	return cache.ProjectionKeyOpts{
		Kind:    kind,
		TypeKey: o.Keys.Type,
		RefKey:  o.Keys.Ref,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Scale only affects PNG output, so it is left out of the other keys.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:  format,
		TypeKey: o.Keys.Type,
		RefKey:  o.Keys.Ref,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
