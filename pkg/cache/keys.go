package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// ParamsKey addresses the last parameter values entered for a solver.
	ParamsKey(solver string) string

	// EstimateKey addresses an estimation result for a layout and parameter set.
	EstimateKey(solver, layoutHash string, params map[string]string) string

	// RenderKey addresses a rendered scene.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render options that change the output bytes.
type RenderKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Grid     int     `json:"grid,omitempty"`
	Canvas   [2]int  `json:"canvas"`
	Mode     string  `json:"mode,omitempty"`
	Graph    bool    `json:"graph,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Pinned   bool    `json:"pinned,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ParamsKey(solver string) string {
	return "params:" + solver
}

func (DefaultKeyer) EstimateKey(solver, layoutHash string, params map[string]string) string {
	return hashKey("estimate:"+solver, layoutHash, params)
}

func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}

// KeyType returns the namespace of key, the part before the first colon.
// Hooks use it to group cache traffic.
func KeyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
