package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Several servers sharing one Redis instance use it to keep their entries
// apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "astviz:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ProjectionKey generates a prefixed key for projection caching.
func (k *ScopedKeyer) ProjectionKey(contentHash string, opts ProjectionKeyOpts) string {
	return k.prefix + k.inner.ProjectionKey(contentHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(contentHash, opts)
}
