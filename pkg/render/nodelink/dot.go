package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/render"
)

// Options configures connectivity diagram rendering.
type Options struct {
	// Detailed adds the device center and pin count to device labels.
	Detailed bool

	// Pinned places devices at their canvas positions using the neato
	// engine instead of letting dot rank them.
	Pinned bool
}

// ToDOT converts the connectivity of doc to Graphviz DOT. Devices become
// boxes; every net with at least two assigned pins becomes a point node
// linked to each device it touches.
func ToDOT(doc *layout.Document, opts Options) string {
	snap := doc.Snapshot()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.Pinned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  inputscale=72;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=\"#FCE205\", fontsize=14];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	devices := slices.Clone(snap.Devices)
	slices.SortFunc(devices, func(a, b layout.Device) int { return a.ID - b.ID })
	for _, d := range devices {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(d, opts.Detailed))}
		if opts.Pinned {
			// DOT y grows upwards; the canvas y grows downwards.
			attrs = append(attrs, fmt.Sprintf("pos=\"%d,%d!\"", d.Rect.Center.X, snap.Height-d.Rect.Center.Y))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", deviceID(d.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range snap.Nets {
		color := layout.NetColor(n.ID)
		if net, ok := doc.Net(n.ID); ok {
			color = net.Color
		}
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.12, color=%q];\n", netID(n.ID), color)
		for _, dev := range touched(doc, n.Pins) {
			fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n", netID(n.ID), deviceID(dev), color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func deviceID(id int) string { return "D" + strconv.Itoa(id) }
func netID(id int) string    { return "N" + strconv.Itoa(id) }

func fmtLabel(d layout.Device, detailed bool) string {
	if !detailed {
		return deviceID(d.ID)
	}
	return fmt.Sprintf("%s\n(%d, %d)\npins: %d", deviceID(d.ID), d.Rect.Center.X, d.Rect.Center.Y, len(d.Pins))
}

// touched returns the distinct devices owning pins, in first-seen order.
func touched(doc *layout.Document, pins []int) []int {
	var out []int
	for _, id := range pins {
		if dev, ok := doc.DeviceOf(id); ok && !slices.Contains(out, dev.ID) {
			out = append(out, dev.ID)
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
