package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/placerlab/placer/pkg/io"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/solver"
)

// newCommand creates the new command, which writes an empty layout file.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create an empty layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			doc, err := c.newDocument()
			if err != nil {
				return err
			}
			if err := pkgio.ExportFile(doc, path); err != nil {
				return err
			}
			printSuccess(c.Out, "Created empty layout")
			printFile(c.Out, path)
			printNextStep(c.Out, "Generate a random layout", "placer gen -p rows=4 -p cols=4 -p nets=8 "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// infoCommand creates the info command, which prints entity counts and
// wirelength totals.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Show layout statistics and wirelength",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pkgio.ParseFile(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			doc, err := f.Document(cfg.LayoutOptions()...)
			if err != nil {
				return err
			}
			stats := doc.Stats()
			wl := solver.Wirelength(f)

			if asJSON {
				return writeJSON(c.Out, map[string]any{
					"stats":      stats,
					"wirelength": wl,
					"canvas":     []int{doc.Width, doc.Height},
				})
			}

			printKeyValue(c.Out, "Layout", args[0])
			printKeyValue(c.Out, "Canvas", fmt.Sprintf("%d x %d", doc.Width, doc.Height))
			printStats(c.Out, stats)
			printRows(c.Out, []solver.Field{
				{Key: solver.KeyTWLManhattan, Value: fmt.Sprintf("%.2f", wl.Manhattan)},
				{Key: solver.KeyTWLHP, Value: fmt.Sprintf("%.2f", wl.HalfPerimeter)},
				{Key: solver.KeyTWLClique, Value: fmt.Sprintf("%.2f", wl.Clique)},
				{Key: solver.KeyTWLHybrid, Value: fmt.Sprintf("%.2f", wl.Hybrid)},
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// exportCommand creates the export command. Export re-numbers entities
// densely and drops nets with fewer than two assigned pins.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Normalize a layout file",
		Long: `Read a layout and write it back out.

Ids are compacted to 0..n-1 in creation order, pins report their device
by position, and nets with fewer than two assigned pins are dropped.
With --json the document is written as a JSON snapshot instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.readLayout(args[0])
			if err != nil {
				return err
			}
			write := pkgio.Write
			if asJSON {
				write = pkgio.WriteJSON
			}
			return c.writeOutput(output, func(w io.Writer) error { return write(doc, w) })
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write a JSON snapshot")
	return cmd
}

// alignCommand creates the align command, which snaps every device and pin
// to its grid.
func (c *CLI) alignCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "align [file]",
		Short: "Snap all devices and pins to the grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.readLayout(args[0])
			if err != nil {
				return err
			}
			doc.AlignAll()
			if output == "" {
				output = args[0]
			}
			if err := pkgio.ExportFile(doc, output); err != nil {
				return err
			}
			printSuccess(c.Out, "Aligned %d devices and %d pins", len(doc.Devices()), len(doc.Pins()))
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// newDocument returns an empty document using the configured editor settings.
func (c *CLI) newDocument() (*layout.Document, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return layout.New(cfg.LayoutOptions()...), nil
}

// readLayout imports a layout file using the configured editor settings.
func (c *CLI) readLayout(path string) (*layout.Document, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return pkgio.ImportFile(path, cfg.LayoutOptions()...)
}

// writeOutput calls fn with the file at path, or with c.Out when path is
// empty or "-".
func (c *CLI) writeOutput(path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(c.Out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
