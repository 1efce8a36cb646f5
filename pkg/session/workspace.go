// Package session manages a workspace of open layouts.
//
// A [Workspace] is the editor's notebook: an ordered set of tabs, each
// holding one [layout.Document]. Solving a tab never modifies it. The
// result opens as a new tab named after the source tab, the solver and a
// per-tab solve count, e.g. "chip_idle1", "chip_idle2".
//
// Parameter values entered for a solver are remembered in a [cache.Cache]
// so every tab, and the next CLI run when the cache is on disk, starts
// from the last values used.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/placerlab/placer/pkg/cache"
	"github.com/placerlab/placer/pkg/errors"
	pkgio "github.com/placerlab/placer/pkg/io"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/solver"
)

// Tab is one open document.
type Tab struct {
	Slug string
	Doc  *layout.Document

	// Path is the file the tab was opened from or last saved to.
	Path string

	// Solver is the solver preselected for this tab.
	Solver string

	// Result holds the rows of the solve that produced this tab.
	Result []solver.Field

	solved map[string]int
}

// Workspace is a set of tabs sharing a solver bridge and a parameter cache.
// It is safe for concurrent use; documents inside tabs are not.
type Workspace struct {
	mu      sync.Mutex
	tabs    []*Tab
	created int

	bridge *solver.Bridge
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
	opts   []layout.Option
	ttl    time.Duration
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithCache sets the parameter cache. The default is [cache.NullCache].
func WithCache(c cache.Cache) Option { return func(w *Workspace) { w.cache = c } }

// WithKeyer sets how cache keys are built.
func WithKeyer(k cache.Keyer) Option { return func(w *Workspace) { w.keyer = k } }

// WithTTL sets the expiry of cached estimates and renders. Zero keeps
// entries until the cache is cleared.
func WithTTL(d time.Duration) Option { return func(w *Workspace) { w.ttl = d } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(w *Workspace) { w.logger = l } }

// WithDocumentOptions configures documents created by the workspace.
func WithDocumentOptions(opts ...layout.Option) Option {
	return func(w *Workspace) { w.opts = opts }
}

// New returns an empty workspace solving through bridge.
func New(bridge *solver.Bridge, opts ...Option) *Workspace {
	w := &Workspace{
		bridge: bridge,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the solver registry behind the workspace.
func (w *Workspace) Registry() *solver.Registry { return w.bridge.Registry }

// NewTab opens an empty document named unsaved<N>.
func (w *Workspace) NewTab() *Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.created++
	return w.add(fmt.Sprintf("unsaved%d", w.created), layout.New(w.opts...))
}

// Open adds doc under slug. If slug is taken a numeric suffix is added.
func (w *Workspace) Open(slug string, doc *layout.Document) (*Tab, error) {
	if err := errors.ValidateSlug(slug); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.created++
	return w.add(slug, doc), nil
}

// OpenFile imports the layout file at path into a new tab named after the
// file. A malformed file opens nothing.
func (w *Workspace) OpenFile(path string) (*Tab, error) {
	doc, err := pkgio.ImportFile(path, w.opts...)
	if err != nil {
		return nil, err
	}
	tab, err := w.Open(SlugFromPath(path), doc)
	if err != nil {
		return nil, err
	}
	tab.Path = path
	return tab, nil
}

// OpenReader parses a layout from r into a new tab named slug.
func (w *Workspace) OpenReader(slug string, r io.Reader) (*Tab, error) {
	doc, err := pkgio.Read(slug, r, w.opts...)
	if err != nil {
		return nil, err
	}
	return w.Open(slug, doc)
}

// Reload replaces the document of tab slug with the file at path. The tab
// keeps its old document if the file is malformed.
func (w *Workspace) Reload(slug, path string) error {
	tab, err := w.Tab(slug)
	if err != nil {
		return err
	}
	doc, err := pkgio.ImportFile(path, w.opts...)
	if err != nil {
		return err
	}
	tab.Doc.Replace(doc)
	tab.Path = path
	return nil
}

// Save writes tab slug to path, or to the tab's own path when path is empty.
func (w *Workspace) Save(slug, path string) error {
	tab, err := w.Tab(slug)
	if err != nil {
		return err
	}
	if path == "" {
		path = tab.Path
	}
	if path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tab %s has no file", slug)
	}
	if err := pkgio.ExportFile(tab.Doc, path); err != nil {
		return err
	}
	tab.Path = path
	return nil
}

// Tab returns the tab called slug.
func (w *Workspace) Tab(slug string) (*Tab, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.index(slug); i >= 0 {
		return w.tabs[i], nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no tab %q", slug)
}

// Tabs returns the open tabs in opening order.
func (w *Workspace) Tabs() []*Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.tabs)
}

// Close removes tab slug.
func (w *Workspace) Close(slug string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.index(slug)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "no tab %q", slug)
	}
	w.tabs = slices.Delete(w.tabs, i, i+1)
	return nil
}

// Params returns the parameters to present for name: its defaults,
// overridden by the values cached from the last run.
func (w *Workspace) Params(ctx context.Context, name string) (solver.Params, error) {
	fields := w.bridge.Registry.Params(name)
	if msg, failed := solver.Failed(fields); failed {
		return nil, errors.New(errors.ErrCodeSolverNotFound, "%s", msg)
	}
	cached, err := w.cachedParams(ctx, name)
	if err != nil {
		w.logger.Warn("params cache read failed", "solver", name, "error", err)
	}
	return solver.Merge(fields, cached), nil
}

// RememberParams stores params as the last values used for name.
func (w *Workspace) RememberParams(ctx context.Context, name string, params solver.Params) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	return w.cache.Set(ctx, w.keyer.ParamsKey(name), data, 0)
}

func (w *Workspace) cachedParams(ctx context.Context, name string) (solver.Params, error) {
	data, ok, err := w.cache.Get(ctx, w.keyer.ParamsKey(name))
	if err != nil || !ok {
		return nil, err
	}
	var p solver.Params
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode cached params: %w", err)
	}
	return p, nil
}

// Estimate validates params for name against tab slug. Successful
// estimates are cached by layout content and parameters.
func (w *Workspace) Estimate(ctx context.Context, slug, name string, params solver.Params) (*solver.Outcome, error) {
	tab, err := w.Tab(slug)
	if err != nil {
		return nil, err
	}
	key, err := w.estimateKey(tab.Doc, name, params)
	if err != nil {
		return nil, err
	}
	if rows, ok := w.cachedRows(ctx, key); ok {
		return &solver.Outcome{RunID: uuid.New(), Solver: name, Params: params, Rows: rows, Cached: true}, nil
	}
	out, err := w.bridge.Estimate(ctx, name, tab.Doc, params)
	if err != nil {
		return nil, err
	}
	if _, failed := out.Failed(); !failed {
		if data, err := json.Marshal(out.Rows); err == nil {
			if err := w.cache.Set(ctx, key, data, w.ttl); err != nil {
				w.logger.Warn("estimate cache write failed", "solver", name, "error", err)
			}
		}
	}
	return out, nil
}

func (w *Workspace) estimateKey(doc *layout.Document, name string, params solver.Params) (string, error) {
	hash, err := LayoutHash(doc)
	if err != nil {
		return "", err
	}
	return w.keyer.EstimateKey(name, hash, params), nil
}

func (w *Workspace) cachedRows(ctx context.Context, key string) ([]solver.Field, bool) {
	data, ok, err := w.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var rows []solver.Field
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// LayoutHash returns the hash of the exported text of doc. Documents that
// export identically hash the same.
func LayoutHash(doc *layout.Document) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.Write(doc, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Solve runs name on tab slug. On success the output opens in a new tab,
// which is returned together with the outcome; a rejected solve returns a
// nil tab and the outcome carrying the error row. Parameters are
// remembered either way.
func (w *Workspace) Solve(ctx context.Context, slug, name string, params solver.Params) (*Tab, *solver.Outcome, error) {
	src, err := w.Tab(slug)
	if err != nil {
		return nil, nil, err
	}
	if err := w.RememberParams(ctx, name, params); err != nil {
		w.logger.Warn("params cache write failed", "solver", name, "error", err)
	}

	out, err := w.bridge.Solve(ctx, name, src.Doc, params)
	if err != nil {
		return nil, nil, err
	}
	if _, failed := out.Failed(); failed {
		return nil, out, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if src.solved == nil {
		src.solved = make(map[string]int)
	}
	src.solved[name]++
	tab := w.add(fmt.Sprintf("%s_%s%d", src.Slug, name, src.solved[name]), out.Layout)
	tab.Solver = name
	tab.Result = out.Rows
	w.logger.Debug("solve tab opened", "tab", tab.Slug, "from", src.Slug)
	return tab, out, nil
}

func (w *Workspace) add(slug string, doc *layout.Document) *Tab {
	base := slug
	for n := 2; w.index(slug) >= 0; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	tab := &Tab{Slug: slug, Doc: doc}
	w.tabs = append(w.tabs, tab)
	return tab
}

func (w *Workspace) index(slug string) int {
	return slices.IndexFunc(w.tabs, func(t *Tab) bool { return t.Slug == slug })
}

// SlugFromPath returns the file name of path without directory or extension.
func SlugFromPath(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, "\\", "/"))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
