package session

import (
	"context"

	"github.com/placerlab/placer/pkg/cache"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/render"
	"github.com/placerlab/placer/pkg/render/nodelink"
)

// RenderRequest selects an output of [Workspace.Render].
type RenderRequest struct {
	Format render.Format
	Scale  float64
	Grid   int

	// Graph draws the connectivity diagram instead of the canvas.
	Graph    bool
	Detailed bool
	Pinned   bool
}

// Render draws tab slug. Results are cached by layout content, canvas
// and request.
func (w *Workspace) Render(ctx context.Context, slug string, req RenderRequest) ([]byte, error) {
	tab, err := w.Tab(slug)
	if err != nil {
		return nil, err
	}
	hash, err := LayoutHash(tab.Doc)
	if err != nil {
		return nil, err
	}
	key := w.keyer.RenderKey(hash, cache.RenderKeyOpts{
		Format:   string(req.Format),
		Scale:    req.Scale,
		Grid:     req.Grid,
		Canvas:   [2]int{tab.Doc.Width, tab.Doc.Height},
		Mode:     string(tab.Doc.Mode()),
		Graph:    req.Graph,
		Detailed: req.Detailed,
		Pinned:   req.Pinned,
	})
	if data, ok, err := w.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := RenderDocument(ctx, tab.Doc, req)
	if err != nil {
		return nil, err
	}
	if err := w.cache.Set(ctx, key, data, w.ttl); err != nil {
		w.logger.Warn("render cache write failed", "tab", slug, "error", err)
	}
	return data, nil
}

// RenderDocument draws doc without caching. DOT output implies Graph.
func RenderDocument(ctx context.Context, doc *layout.Document, req RenderRequest) ([]byte, error) {
	if req.Graph || req.Format == nodelink.FormatDOT {
		return nodelink.Render(ctx, doc, req.Format, nodelink.Options{
			Detailed: req.Detailed,
			Pinned:   req.Pinned,
		}, req.Scale)
	}
	var opts []render.Option
	if req.Scale > 0 {
		opts = append(opts, render.WithScale(req.Scale))
	}
	if req.Grid > 0 {
		opts = append(opts, render.WithGrid(req.Grid))
	}
	return render.Render(ctx, doc, req.Format, opts...)
}
