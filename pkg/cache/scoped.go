package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses it to keep each owner's cached pages in a separate
// namespace.
//
// Example usage:
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
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

// AssemblyKey generates a prefixed key for enumeration caching.
func (k *ScopedKeyer) AssemblyKey(selectionHash string, opts AssemblyKeyOpts) string {
	return k.prefix + k.inner.AssemblyKey(selectionHash, opts)
}

// TextKey generates a prefixed key for generated-copy caching.
func (k *ScopedKeyer) TextKey(requestsHash string, opts TextKeyOpts) string {
	return k.prefix + k.inner.TextKey(requestsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(specHash, opts)
}
