package render

import (
	"context"

	"github.com/placerlab/placer/pkg/layout"
)

// RenderPDF renders doc as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, doc *layout.Document, opts ...Option) ([]byte, error) {
	return ToPDF(ctx, RenderSVG(doc, opts...))
}
