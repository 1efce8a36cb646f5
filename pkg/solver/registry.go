package solver

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/placerlab/placer/pkg/errors"
)

// Registry holds solvers in registration order.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	solvers map[string]Solver
}

// NewRegistry returns a registry with the given solvers.
func NewRegistry(solvers ...Solver) *Registry {
	r := &Registry{solvers: make(map[string]Solver)}
	for _, s := range solvers {
		r.MustRegister(s)
	}
	return r
}

// Builtin returns a registry with idle and layout_gen.
func Builtin() *Registry {
	return NewRegistry(Idle{}, NewLayoutGenerator())
}

// Register adds s. Names must be valid identifiers and unique.
func (r *Registry) Register(s Solver) error {
	name := s.Name()
	if err := errors.ValidateSolverName(name); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.solvers[name]; dup {
		return errors.New(errors.ErrCodeInvalidName, "solver %q already registered", name)
	}
	r.names = append(r.names, name)
	r.solvers[name] = s
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(s Solver) {
	if err := r.Register(s); err != nil {
		panic(fmt.Sprintf("solver: %v", err))
	}
}

// Names lists solver names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// Get returns the solver called name.
func (r *Registry) Get(name string) (Solver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.solvers[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeSolverNotFound, "No such solver")
	}
	return s, nil
}

// Params returns the parameter list of name, or an error row.
func (r *Registry) Params(name string) []Field {
	s, err := r.Get(name)
	if err != nil {
		return ErrorRows(err)
	}
	return s.Params()
}

// Estimate validates params for name and returns its estimate rows.
func (r *Registry) Estimate(ctx context.Context, name, input, output string, params Params) []Field {
	return r.call(ctx, name, func(s Solver) ([]Field, error) {
		return s.Estimate(ctx, input, output, params)
	})
}

// Solve runs name and returns its result rows.
func (r *Registry) Solve(ctx context.Context, name, input, output string, params Params) []Field {
	return r.call(ctx, name, func(s Solver) ([]Field, error) {
		return s.Solve(ctx, input, output, params)
	})
}

func (r *Registry) call(ctx context.Context, name string, fn func(Solver) ([]Field, error)) (rows []Field) {
	s, err := r.Get(name)
	if err != nil {
		return ErrorRows(err)
	}
	if err := ctx.Err(); err != nil {
		return ErrorRows(err)
	}
	defer func() {
		if p := recover(); p != nil {
			rows = ErrorRows(errors.New(errors.ErrCodeSolverFailed, "%s: %v", name, p))
		}
	}()
	rows, err = fn(s)
	if err != nil {
		return ErrorRows(err)
	}
	return rows
}
