package nodelink

import (
	"context"
	"time"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/observability"
	"github.com/placerlab/placer/pkg/render"
)

// FormatDOT selects the DOT source itself.
const FormatDOT render.Format = "dot"

// Render draws the connectivity diagram of doc in format f, which is one
// of svg, png, pdf or dot. Render hooks see the format prefixed with
// "graph:".
func Render(ctx context.Context, doc *layout.Document, f render.Format, opts Options, scale float64) ([]byte, error) {
	dot := ToDOT(doc, opts)
	format := "graph:" + string(f)
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, len(doc.Devices())+len(doc.Nets()))
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatDOT:
		data = []byte(dot)
	case render.FormatSVG:
		data, err = RenderSVG(ctx, dot)
	case render.FormatPNG:
		data, err = RenderPNG(ctx, dot, max(scale, 1))
	case render.FormatPDF:
		data, err = RenderPDF(ctx, dot)
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "format %q is not available for graphs (must be svg, png, pdf or dot)", f)
	}

	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}
