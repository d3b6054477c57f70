package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/graph"
	"github.com/matzehuels/astviz/pkg/observability"
	"github.com/matzehuels/astviz/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete deserialize → project → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ContentHash: cache.Hash(data),
		Artifacts:   make(map[string][]byte),
	}

	// Stage 1: Deserialize
	start := time.Now()
	root, err := r.Deserialize(ctx, data, opts.Keys)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.Stats.DeserializeTime = time.Since(start)
	refs := ast.CollectReferences(root)
	result.Stats.ReferenceCount = len(refs)
	for _, ref := range refs {
		if !ref.Resolved() {
			result.Stats.UnresolvedCount++
		}
	}

	// Stage 2: Project
	start = time.Now()
	g, dot := r.projectGraph(ctx, root)
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.ProjectTime = time.Since(start)

	r.Logger.Info("projected graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"refs", result.Stats.ReferenceCount,
		"duration", result.Stats.ProjectTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.ContentHash, g, dot, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Deserialize decodes and relinks data, reporting to the pipeline hooks.
func (r *Runner) Deserialize(ctx context.Context, data []byte, keys ast.Keys) (*ast.Node, error) {
	if keys == (ast.Keys{}) {
		keys = ast.DefaultKeys
	}
	hooks := observability.Pipeline()
	hooks.OnDeserializeStart(ctx, len(data))
	start := time.Now()

	root, err := ast.DeserializeWithKeys(data, keys)
	var stats observability.DeserializeStats
	if err == nil {
		refs := ast.CollectReferences(root)
		stats.Nodes = ast.Count(root)
		stats.References = len(refs)
		for _, ref := range refs {
			if !ref.Resolved() {
				stats.Unresolved++
			}
		}
	}
	hooks.OnDeserializeComplete(ctx, stats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("deserialized AST",
		"bytes", len(data),
		"nodes", stats.Nodes,
		"refs", stats.References,
		"unresolved", stats.Unresolved)
	return root, nil
}

// ProjectionWithCacheInfo returns one projection of data, using the cache
// keyed by the content hash, and reports whether it was a cache hit.
func (r *Runner) ProjectionWithCacheInfo(ctx context.Context, data []byte, kind string, opts Options) ([]byte, bool, error) {
	if err := ValidateProjection(kind); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ProjectionKey(cache.Hash(data), opts.ProjectionKeyOpts(kind))
	if !opts.Refresh {
		if out, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			return out, true, nil
		}
	}

	root, err := r.Deserialize(ctx, data, opts.Keys)
	if err != nil {
		return nil, false, err
	}
	out, err := r.project(ctx, root, kind)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, out, cache.TTLProjection); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "error", err)
	}
	return out, false, nil
}

// Projection is a convenience wrapper that discards the cache hit info.
func (r *Runner) Projection(ctx context.Context, data []byte, kind string, opts Options) ([]byte, error) {
	out, _, err := r.ProjectionWithCacheInfo(ctx, data, kind, opts)
	return out, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Missing formats are rendered concurrently.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, contentHash string, g *graph.Graph, dot string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for _, format := range missing {
		eg.Go(func() error {
			data, err := Render(egCtx, g, dot, format, opts.Scale)
			if err != nil {
				return err
			}
			key := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(egCtx, key, data, r.artifactTTL()); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "error", err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := eg.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

func (r *Runner) projectGraph(ctx context.Context, root *ast.Node) (*graph.Graph, string) {
	hooks := observability.Pipeline()
	hooks.OnProjectStart(ctx, ProjectionGraph, ast.Count(root))
	start := time.Now()
	g := graph.FromAST(root)
	dot := nodelink.ToDOT(g)
	hooks.OnProjectComplete(ctx, ProjectionGraph, time.Since(start), nil)
	return g, dot
}

func (r *Runner) project(ctx context.Context, root *ast.Node, kind string) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnProjectStart(ctx, kind, ast.Count(root))
	start := time.Now()
	out, err := Project(root, kind)
	hooks.OnProjectComplete(ctx, kind, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", kind, err)
	}
	return out, nil
}
