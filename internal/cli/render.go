package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/render"
	"github.com/placerlab/placer/pkg/render/nodelink"
	"github.com/placerlab/placer/pkg/session"
)

const defaultScale = 1.0 // PNG pixels per canvas unit

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string
	format   string
	mode     string
	graph    bool
	detailed bool
	pinned   bool
	scale    float64
	grid     int
}

// renderCommand creates the render command for drawing a layout.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(render.FormatSVG), scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a layout to SVG, PNG, PDF or JSON",
		Long: `Render a layout file.

The canvas view draws devices, pins and net wires the way the editor shows
them. With --graph the layout is drawn as a connectivity diagram through
Graphviz instead: one box per device, one point per net.

PNG is rasterized natively. PDF needs rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, pdf, json, dot")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "net topology: polygon, polygon-sticky, clique (default: from config)")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "draw the connectivity diagram")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label devices with position and pin count (graph)")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "keep devices at their canvas positions (graph)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.grid, "grid", 0, "draw grid lines every N units (canvas)")

	return cmd
}

// runRender loads the layout into a workspace tab and renders it through
// the workspace render cache.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	format, err := parseRenderFormat(opts.format)
	if err != nil {
		return err
	}
	var mode layout.Mode
	if opts.mode != "" {
		if mode, err = layout.ParseMode(opts.mode); err != nil {
			return err
		}
	}

	ws, cleanup, err := c.newWorkspace(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	tab, err := ws.OpenFile(input)
	if err != nil {
		return err
	}
	if mode != "" {
		tab.Doc.SetNetMode(mode)
	}

	prog := newProgress(loggerFromContext(ctx))
	data, err := ws.Render(ctx, tab.Slug, session.RenderRequest{
		Format:   format,
		Scale:    opts.scale,
		Grid:     opts.grid,
		Graph:    opts.graph,
		Detailed: opts.detailed,
		Pinned:   opts.pinned,
	})
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = basePath(input) + "." + string(format)
	}
	if output == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.ToUpper(string(format))))
	printFile(c.Out, output)
	return nil
}

// parseRenderFormat accepts the canvas formats plus dot.
func parseRenderFormat(s string) (render.Format, error) {
	if f := render.Format(strings.ToLower(strings.TrimPrefix(s, "."))); f == nodelink.FormatDOT {
		return f, nil
	}
	f, err := render.ParseFormat(s)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be svg, png, pdf, json or dot)", s)
	}
	return f, nil
}

// basePath strips the extension from a file path.
func basePath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}
