package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without seeing each other's layouts.
//
// Example usage:
//
//	// Keys for the staging deployment
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//
//	// Unprefixed keys
//	global := NewDefaultKeyer()
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

// LayoutKey generates a prefixed key for a stored layout.
func (k *ScopedKeyer) LayoutKey(space, breakpoint string) string {
	return k.prefix + k.inner.LayoutKey(space, breakpoint)
}

// CompactKey generates a prefixed key for a compaction result.
func (k *ScopedKeyer) CompactKey(layoutHash string, opts CompactKeyOpts) string {
	return k.prefix + k.inner.CompactKey(layoutHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
