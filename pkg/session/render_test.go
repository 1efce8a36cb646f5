package session

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/placerlab/placer/pkg/cache"
	"github.com/placerlab/placer/pkg/render"
	"github.com/placerlab/placer/pkg/render/nodelink"
	"github.com/placerlab/placer/pkg/solver"
)

// countingCache records Set calls on top of a file cache.
type countingCache struct {
	cache.Cache
	sets int
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	return c.Cache.Set(ctx, key, data, ttl)
}

func newCountingCache(t *testing.T) *countingCache {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &countingCache{Cache: fc}
}

func TestRenderCachesOutput(t *testing.T) {
	c := newCountingCache(t)
	w := newWorkspace(t, WithCache(c))
	ctx := context.Background()
	if _, err := w.Open("chip", chip()); err != nil {
		t.Fatal(err)
	}

	req := RenderRequest{Format: render.FormatSVG}
	first, err := w.Render(ctx, "chip", req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Render(ctx, "chip", req)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached render differs")
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	if _, err := w.Render(ctx, "chip", RenderRequest{Format: render.FormatSVG, Grid: 10}); err != nil {
		t.Fatal(err)
	}
	if c.sets != 2 {
		t.Errorf("grid variant reused the plain render")
	}

	tab, _ := w.Tab("chip")
	tab.Doc.AddDevice(400, 400, 25, 25)
	third, err := w.Render(ctx, "chip", req)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, third) {
		t.Error("edited document rendered from cache")
	}
}

func TestRenderDocument(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		req    RenderRequest
		prefix string
	}{
		{"svg", RenderRequest{Format: render.FormatSVG}, "<svg"},
		{"png", RenderRequest{Format: render.FormatPNG, Scale: 2}, "\x89PNG"},
		{"json", RenderRequest{Format: render.FormatJSON}, "{"},
		{"dot", RenderRequest{Format: nodelink.FormatDOT}, "graph G"},
		{"graph dot", RenderRequest{Format: nodelink.FormatDOT, Graph: true, Detailed: true}, "graph G"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderDocument(ctx, chip(), tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("output starts %.20q, want %q", data, tt.prefix)
			}
		})
	}

	if _, err := RenderDocument(ctx, chip(), RenderRequest{Format: render.FormatJSON, Graph: true}); err == nil {
		t.Error("json graph render succeeded")
	}
}

func TestEstimateCached(t *testing.T) {
	c := newCountingCache(t)
	w := newWorkspace(t, WithCache(c))
	ctx := context.Background()
	if _, err := w.Open("chip", chip()); err != nil {
		t.Fatal(err)
	}

	first, err := w.Estimate(ctx, "chip", "idle", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Estimate(ctx, "chip", "idle", nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || !second.Cached {
		t.Errorf("cached = %v, %v, want false, true", first.Cached, second.Cached)
	}
	if v, _ := solver.Lookup(second.Rows, solver.KeyExpectTime); v != "0 sec" {
		t.Errorf("cached rows = %v", second.Rows)
	}

	// Failed estimates are not cached.
	sets := c.sets
	out, err := w.Estimate(ctx, "chip", "layout_gen", solver.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if _, failed := out.Failed(); !failed {
		t.Fatal("layout_gen without rows should fail")
	}
	if _, err := w.Estimate(ctx, "chip", "layout_gen", solver.Params{}); err != nil {
		t.Fatal(err)
	}
	if c.sets != sets {
		t.Errorf("failed estimate was cached")
	}
}

func TestLayoutHash(t *testing.T) {
	a, err := LayoutHash(chip())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := LayoutHash(chip())
	if a != b {
		t.Error("equal documents hash differently")
	}
	doc := chip()
	doc.AddDevice(300, 300, 10, 10)
	if c, _ := LayoutHash(doc); c == a {
		t.Error("different documents hash the same")
	}
}
