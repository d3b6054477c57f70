package cache

// Keyer builds cache keys. Every key embeds the SHA-256 of the input bytes
// (see [Hash]) so a changed document never hits a stale entry.
type Keyer interface {
	// ProjectionKey identifies a projection ("graph", "treemap", "dot", ...)
	// of a serialized AST.
	ProjectionKey(contentHash string, opts ProjectionKeyOpts) string
	// ArtifactKey identifies a rendered artifact (svg, png, pdf).
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// ProjectionKeyOpts are the options a projection depends on.
type ProjectionKeyOpts struct {
	Kind    string `json:"kind"`
	TypeKey string `json:"type_key,omitempty"`
	RefKey  string `json:"ref_key,omitempty"`
}

// ArtifactKeyOpts are the options a rendered artifact depends on.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Scale   float64 `json:"scale,omitempty"`
	TypeKey string  `json:"type_key,omitempty"`
	RefKey  string  `json:"ref_key,omitempty"`
}

// DefaultKeyer produces "projection:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ProjectionKey implements Keyer.
func (DefaultKeyer) ProjectionKey(contentHash string, opts ProjectionKeyOpts) string {
	return hashKey("projection", contentHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}
