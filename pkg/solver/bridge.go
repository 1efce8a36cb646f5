package solver

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/placerlab/placer/pkg/errors"
	pkgio "github.com/placerlab/placer/pkg/io"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/observability"
)

// Bridge runs registry solvers against in-memory documents.
type Bridge struct {
	Registry *Registry
	Logger   *log.Logger

	// TempDir holds the exchange files. Empty means os.TempDir().
	TempDir string

	// Options configure documents imported from solver output.
	Options []layout.Option
}

// NewBridge returns a bridge over reg.
func NewBridge(reg *Registry, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{Registry: reg, Logger: logger}
}

// Outcome is the result of one bridge call.
type Outcome struct {
	RunID   uuid.UUID     `json:"run_id"`
	Solver  string        `json:"solver"`
	Params  Params        `json:"params,omitempty"`
	Rows    []Field       `json:"rows"`
	Elapsed time.Duration `json:"elapsed"`

	// Cached is set when the rows came from the estimate cache.
	Cached bool `json:"cached,omitempty"`

	// Text is the output layout file and Layout the document built from
	// it. Both are empty unless a solve succeeded.
	Text   []byte           `json:"-"`
	Layout *layout.Document `json:"-"`
}

// Failed reports whether the solver returned an error row.
func (o *Outcome) Failed() (string, bool) { return Failed(o.Rows) }

// Estimate validates params against doc without producing a layout.
func (b *Bridge) Estimate(ctx context.Context, name string, doc *layout.Document, params Params) (*Outcome, error) {
	out := &Outcome{RunID: uuid.New(), Solver: name, Params: params}
	err := b.withFiles(out.RunID, doc, func(in, outPath string) error {
		start := time.Now()
		out.Rows = b.Registry.Estimate(ctx, name, in, outPath, params)
		out.Elapsed = time.Since(start)
		observability.Solver().OnEstimate(ctx, name, out.Elapsed, rowsErr(out.Rows))
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.logger().Debug("estimate finished", "solver", name, "rows", len(out.Rows))
	return out, nil
}

// Solve estimates first and, when that succeeds, runs the solver and
// imports its output layout. A solver failure is reported as an error row
// in the outcome, not as an error; errors are reserved for exchange-file
// I/O and unreadable output.
func (b *Bridge) Solve(ctx context.Context, name string, doc *layout.Document, params Params) (*Outcome, error) {
	out := &Outcome{RunID: uuid.New(), Solver: name, Params: params}
	runID := out.RunID.String()
	logger := b.logger().With("solver", name, "run", runID[:8])

	err := b.withFiles(out.RunID, doc, func(in, outPath string) error {
		if rows := b.Registry.Estimate(ctx, name, in, outPath, params); hasError(rows) {
			out.Rows = rows
			return nil
		}

		observability.Solver().OnSolveStart(ctx, name, runID)
		start := time.Now()
		out.Rows = b.Registry.Solve(ctx, name, in, outPath, params)
		out.Elapsed = time.Since(start)
		observability.Solver().OnSolveComplete(ctx, name, runID, len(out.Rows), out.Elapsed, rowsErr(out.Rows))
		if hasError(out.Rows) {
			return nil
		}

		text, err := os.ReadFile(outPath)
		if err != nil {
			return fmt.Errorf("read solver output: %w", err)
		}
		f, err := pkgio.Parse(name+" output", bytes.NewReader(text))
		if err != nil {
			return err
		}
		if out.Layout, err = f.Document(b.Options...); err != nil {
			return err
		}
		out.Text = text
		return nil
	})
	if err != nil {
		return nil, err
	}
	if msg, failed := out.Failed(); failed {
		logger.Debug("solve rejected", "error", msg)
	} else {
		logger.Debug("solve finished", "rows", len(out.Rows), "elapsed", out.Elapsed)
	}
	return out, nil
}

// withFiles exports doc to a fresh input file, creates an empty output
// file, and removes both after fn returns, whatever happened.
func (b *Bridge) withFiles(id uuid.UUID, doc *layout.Document, fn func(in, out string) error) (err error) {
	dir := b.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	in := filepath.Join(dir, "placer-"+id.String()+"-in.txt")
	out := filepath.Join(dir, "placer-"+id.String()+"-out.txt")

	var created []string
	defer func() {
		for _, p := range created {
			if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
				b.logger().Warn("remove exchange file", "path", p, "error", rmErr)
				err = stderrors.Join(err, rmErr)
			}
		}
	}()

	created = append(created, in)
	if err := pkgio.ExportFile(doc, in); err != nil {
		return err
	}
	created = append(created, out)
	fh, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	return fn(in, out)
}

func (b *Bridge) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}

func hasError(rows []Field) bool {
	_, failed := Failed(rows)
	return failed
}

func rowsErr(rows []Field) error {
	if msg, failed := Failed(rows); failed {
		return errors.New(errors.ErrCodeSolverFailed, "%s", msg)
	}
	return nil
}
