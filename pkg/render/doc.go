// Package render draws layout documents.
//
// # Overview
//
// A document is first flattened into a [Scene]: the filled rectangles of
// devices and pins in z-order, followed by the rendered segments of every
// net. Sinks then turn the scene into bytes:
//
//   - [RenderSVG] writes an SVG document
//   - [RenderPNG] rasterizes natively with golang.org/x/image/vector
//   - [RenderPDF] converts the SVG with the external rsvg-convert tool
//
// [Render] dispatches on a [Format] and reports to the render hooks of
// package observability.
//
//	svg, err := render.Render(ctx, doc, render.FormatSVG, render.WithGrid(10))
//	png, err := render.RenderPNG(doc, render.WithScale(2))
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using rsvg-convert (from librsvg).
// The [nodelink] subpackage uses them for Graphviz output.
//
// [nodelink]: github.com/placerlab/placer/pkg/render/nodelink
package render
