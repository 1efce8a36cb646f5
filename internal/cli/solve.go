package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/session"
	"github.com/placerlab/placer/pkg/solver"
	"github.com/placerlab/placer/pkg/store"
)

// generatorName is the built-in solver behind "placer gen".
const generatorName = "layout_gen"

// solversCommand lists the registered solvers.
func (c *CLI) solversCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "solvers",
		Short: "List available solvers",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry(cmd.Context())
			if err != nil {
				return err
			}
			entries := solverEntries(reg)
			if asJSON {
				return writeJSON(c.Out, entries)
			}
			t := newTable("Solver", "Params", "Source")
			for _, e := range entries {
				t.Row(e.Name, paramSummary(e.Params), e.Source)
			}
			fmt.Fprintln(c.Out, t.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// paramsCommand shows the parameters of a solver with the values the next
// run will start from.
func (c *CLI) paramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "params [solver]",
		Short:             "Show solver parameters and remembered values",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSolverNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, cleanup, err := c.newWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			values, err := ws.Params(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printParams(c.Out, ws.Registry().Params(args[0]), values)
			return nil
		},
	}
	return cmd
}

// estimateCommand validates parameters against a layout without solving.
func (c *CLI) estimateCommand() *cobra.Command {
	var raw []string

	cmd := &cobra.Command{
		Use:               "estimate [solver] [file]",
		Short:             "Validate parameters and predict solver cost",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeSolverNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, cleanup, err := c.newWorkspace(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tab, err := ws.OpenFile(args[1])
			if err != nil {
				return err
			}
			params, err := c.solverParams(ctx, ws, args[0], raw)
			if err != nil {
				return err
			}
			out, err := ws.Estimate(ctx, tab.Slug, args[0], params)
			if err != nil {
				return err
			}
			printRows(c.Out, out.Rows)
			if out.Cached {
				printDetail(c.Out, "cached")
			}
			if msg, failed := out.Failed(); failed {
				return errors.New(errors.ErrCodeValidationFailed, "%s", msg)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&raw, "param", "p", nil, "solver parameter as key=value (repeatable)")
	return cmd
}

// solveOpts holds the flags of the solve command.
type solveOpts struct {
	params []string
	output string
	save   bool
}

// solveCommand runs a solver on a layout file and writes the result.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [solver] [file]",
		Short: "Run a solver on a layout",
		Long: `Run a solver on a layout file.

The input is never modified. The result is written next to it, named after
the input, the solver and a run count: chip.layout solved with idle
becomes chip_idle1.layout. Without a solver name an interactive picker
opens.

Parameters not given with -p start from the values of the last run.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeSolverNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := "", args[0]
			if len(args) == 2 {
				name, input = args[0], args[1]
			}
			return c.runSolve(cmd.Context(), name, input, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "solver parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>_<solver><n>.layout)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the input layout and record the run")
	return cmd
}

// runSolve opens input in a workspace, solves it and writes the new tab.
func (c *CLI) runSolve(ctx context.Context, name, input string, opts solveOpts) error {
	ws, cleanup, err := c.newWorkspace(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if name == "" {
		name, err = c.pickSolver(ws.Registry(), "")
		if err != nil || name == "" {
			return err
		}
	}

	src, err := ws.OpenFile(input)
	if err != nil {
		return err
	}
	params, err := c.solverParams(ctx, ws, name, opts.params)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, c.Out, fmt.Sprintf("Solving %s with %s...", src.Slug, name))
	spinner.Start()
	tab, out, err := ws.Solve(ctx, src.Slug, name, params)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	if tab == nil {
		spinner.Stop()
		printRows(c.Out, out.Rows)
		msg, _ := out.Failed()
		if spinner.Cancelled() {
			return context.Canceled
		}
		return errors.New(errors.ErrCodeSolverFailed, "%s", msg)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Solved %s with %s in %s", src.Slug, name, out.Elapsed.Round(time.Millisecond)))

	output := opts.output
	if output == "" {
		output = filepath.Join(filepath.Dir(input), tab.Slug+filepath.Ext(input))
	}
	if err := ws.Save(tab.Slug, output); err != nil {
		return err
	}
	printRows(c.Out, out.Rows)
	printFile(c.Out, output)

	if opts.save {
		if err := c.recordRun(ctx, src, out); err != nil {
			return err
		}
	}
	printNextStep(c.Out, "Render the result", "placer render "+output)
	return nil
}

// recordRun stores the source layout and the run that solved it.
func (c *CLI) recordRun(ctx context.Context, src *session.Tab, out *solver.Outcome) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := store.NewDocument(src.Slug, src.Doc)
	if err != nil {
		return err
	}
	if err := st.SaveDocument(ctx, doc); err != nil {
		return err
	}
	if err := st.SaveRun(ctx, store.NewRun(doc.ID, out)); err != nil {
		return err
	}
	printDetail(c.Out, "Stored as %s", doc.ID)
	return nil
}

// genCommand generates a random layout with the built-in generator.
func (c *CLI) genCommand() *cobra.Command {
	var raw []string

	cmd := &cobra.Command{
		Use:   "gen [file]",
		Short: "Generate a random grid layout",
		Long: `Generate a random layout of rows x cols devices with nets drawn between
their pins. rows, cols and nets are required the first time; later runs
start from the remembered values. A seed of -1 picks a fresh seed, which
is printed so the layout can be reproduced.

  placer gen -p rows=4 -p cols=6 -p nets=20 -p seed=7 chip.layout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, cleanup, err := c.newWorkspace(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			params, err := c.solverParams(ctx, ws, generatorName, raw)
			if err != nil {
				return err
			}
			params["path"] = args[0]
			blank := ws.NewTab()
			tab, out, err := ws.Solve(ctx, blank.Slug, generatorName, params)
			if err != nil {
				return err
			}
			if tab == nil {
				printRows(c.Out, out.Rows)
				msg, _ := out.Failed()
				return errors.New(errors.ErrCodeInvalidParam, "%s", msg)
			}
			if err := ws.Save(tab.Slug, args[0]); err != nil {
				return err
			}
			stats := tab.Doc.Stats()
			seed, _ := solver.Lookup(out.Rows, "seed")
			printSuccess(c.Out, "Generated %d devices, %d pins, %d nets (seed %s)", stats.Devices, stats.Pins, stats.Nets, seed)
			printFile(c.Out, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&raw, "param", "p", nil, "generator parameter as key=value (repeatable)")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// solverParams merges -p overrides over the remembered values of name.
func (c *CLI) solverParams(ctx context.Context, ws *session.Workspace, name string, raw []string) (solver.Params, error) {
	params, err := ws.Params(ctx, name)
	if err != nil {
		return nil, err
	}
	overrides, err := parseParams(raw)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		params[k] = v
	}
	return params, nil
}

// parseParams parses key=value pairs.
func parseParams(raw []string) (solver.Params, error) {
	p := make(solver.Params, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.New(errors.ErrCodeInvalidParam, "invalid parameter %q (want key=value)", kv)
		}
		p[k] = strings.TrimSpace(v)
	}
	return p, nil
}

// pickSolver runs the interactive solver picker. An empty name means the
// user quit without choosing.
func (c *CLI) pickSolver(reg *solver.Registry, preselect string) (string, error) {
	entries := solverEntries(reg)
	if len(entries) == 0 {
		return "", errors.New(errors.ErrCodeSolverNotFound, "no solvers available")
	}
	p := tea.NewProgram(NewSolverPickerModel(entries, preselect))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(SolverPickerModel)
	if !ok || m.Selected == nil {
		printDetail(c.Out, "No solver selected")
		return "", nil
	}
	return m.Selected.Name, nil
}
