package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/placerlab/placer/pkg/cache"
	"github.com/placerlab/placer/pkg/errors"
	pkgio "github.com/placerlab/placer/pkg/io"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/solver"
)

func newWorkspace(t *testing.T, opts ...Option) *Workspace {
	t.Helper()
	bridge := solver.NewBridge(solver.Builtin(), log.New(io.Discard))
	bridge.TempDir = t.TempDir()
	return New(bridge, append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
}

func chip() *layout.Document {
	doc := layout.New()
	doc.AddDevice(100, 100, 25, 25)
	a := doc.AddPin(90, 90, 5, 5)
	b := doc.AddPin(110, 110, 5, 5)
	doc.AddNet([]int{a.ID, b.ID})
	return doc
}

func TestNewTabNames(t *testing.T) {
	w := newWorkspace(t)
	first := w.NewTab()
	second := w.NewTab()
	if first.Slug != "unsaved1" || second.Slug != "unsaved2" {
		t.Errorf("slugs = %q, %q", first.Slug, second.Slug)
	}
	if len(w.Tabs()) != 2 {
		t.Errorf("tabs = %d, want 2", len(w.Tabs()))
	}
}

func TestOpenDuplicateSlug(t *testing.T) {
	w := newWorkspace(t)
	a, err := w.Open("chip", chip())
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.Open("chip", chip())
	if err != nil {
		t.Fatal(err)
	}
	if a.Slug != "chip" || b.Slug != "chip-2" {
		t.Errorf("slugs = %q, %q", a.Slug, b.Slug)
	}
	if _, err := w.Open("a/b", chip()); err == nil {
		t.Error("expected invalid slug error")
	}
}

func TestOpenFileAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chip.txt")
	if err := pkgio.ExportFile(chip(), path); err != nil {
		t.Fatal(err)
	}

	w := newWorkspace(t)
	tab, err := w.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Slug != "chip" || tab.Path != path {
		t.Errorf("tab = %q at %q", tab.Slug, tab.Path)
	}
	before := tab.Doc.Stats()

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("Devices\n1\n0\n1 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload("chip", bad); err == nil {
		t.Fatal("expected reload of malformed file to fail")
	}
	if got := tab.Doc.Stats(); got != before || tab.Path != path {
		t.Errorf("failed reload changed tab: %+v at %q", got, tab.Path)
	}
	if _, err := w.OpenFile(bad); err == nil {
		t.Error("expected OpenFile of malformed file to fail")
	}
	if len(w.Tabs()) != 1 {
		t.Errorf("tabs = %d, want 1", len(w.Tabs()))
	}
}

func TestSaveNeedsPath(t *testing.T) {
	w := newWorkspace(t)
	tab := w.NewTab()
	if err := w.Save(tab.Slug, ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := w.Save(tab.Slug, path); err != nil {
		t.Fatal(err)
	}
	if tab.Path != path {
		t.Errorf("path = %q, want %q", tab.Path, path)
	}
	if err := w.Save(tab.Slug, ""); err != nil {
		t.Errorf("second save: %v", err)
	}
}

func TestCloseUnknownTab(t *testing.T) {
	w := newWorkspace(t)
	if err := w.Close("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestParamsRemembered(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w := newWorkspace(t, WithCache(c))
	ctx := context.Background()

	p, err := w.Params(ctx, "layout_gen")
	if err != nil {
		t.Fatal(err)
	}
	if p["seed"] != "-1" || p["rows"] != "" {
		t.Errorf("defaults = %v", p)
	}

	if err := w.RememberParams(ctx, "layout_gen", solver.Params{"rows": "3", "seed": "7"}); err != nil {
		t.Fatal(err)
	}
	p, err = w.Params(ctx, "layout_gen")
	if err != nil {
		t.Fatal(err)
	}
	if p["rows"] != "3" || p["seed"] != "7" || p["step_x"] == "" {
		t.Errorf("merged = %v", p)
	}

	if _, err := w.Params(ctx, "nope"); !errors.Is(err, errors.ErrCodeSolverNotFound) {
		t.Errorf("err = %v, want SOLVER_NOT_FOUND", err)
	}
}

func TestSolveOpensNumberedTabs(t *testing.T) {
	w := newWorkspace(t)
	ctx := context.Background()
	if _, err := w.Open("x", chip()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"x_idle1", "x_idle2"} {
		tab, out, err := w.Solve(ctx, "x", "idle", nil)
		if err != nil {
			t.Fatal(err)
		}
		if tab == nil {
			t.Fatalf("solve failed: %+v", out.Rows)
		}
		if tab.Slug != want || tab.Solver != "idle" {
			t.Errorf("tab = %q (%s), want %q", tab.Slug, tab.Solver, want)
		}
		if _, ok := solver.Lookup(tab.Result, solver.KeyTWLManhattan); !ok {
			t.Errorf("result rows missing wirelength: %+v", tab.Result)
		}
		if tab.Doc.Stats().QualifyingNets != 1 {
			t.Errorf("solved layout lost its net: %+v", tab.Doc.Stats())
		}
	}

	src, _ := w.Tab("x")
	if src.Doc.Stats().Devices != 1 {
		t.Error("solve modified the source tab")
	}
}

func TestSolveFailureOpensNothing(t *testing.T) {
	w := newWorkspace(t)
	ctx := context.Background()
	if _, err := w.Open("x", chip()); err != nil {
		t.Fatal(err)
	}

	tab, out, err := w.Solve(ctx, "x", "layout_gen", nil)
	if err != nil {
		t.Fatal(err)
	}
	if tab != nil {
		t.Errorf("failed solve opened tab %q", tab.Slug)
	}
	if msg, failed := out.Failed(); !failed || msg != "No rows" {
		t.Errorf("rows = %+v, want No rows", out.Rows)
	}
	if len(w.Tabs()) != 1 {
		t.Errorf("tabs = %d, want 1", len(w.Tabs()))
	}

	if tab, _, err := w.Solve(ctx, "x", "idle", nil); err != nil || tab.Slug != "x_idle1" {
		t.Errorf("first successful solve = %v, %v", tab, err)
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"/tmp/chip.txt", "chip"},
		{"chip", "chip"},
		{`C:\work\board.layout`, "board"},
		{"dir/archive.tar.gz", "archive.tar"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		if got := SlugFromPath(tt.path); got != tt.want {
			t.Errorf("SlugFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
