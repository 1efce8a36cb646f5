package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server uses it
// to keep workspaces apart when they share one Redis database.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "ws:"+workspaceID+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ParamsKey(solver string) string {
	return k.prefix + k.inner.ParamsKey(solver)
}

func (k *ScopedKeyer) EstimateKey(solver, layoutHash string, params map[string]string) string {
	return k.prefix + k.inner.EstimateKey(solver, layoutHash, params)
}

func (k *ScopedKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(layoutHash, opts)
}
