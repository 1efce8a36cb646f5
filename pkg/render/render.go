package render

import (
	"context"
	"strings"
	"time"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/observability"
)

// Format is an output format of [Render].
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the formats [Render] accepts.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat accepts a format name in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown render format %q (must be svg, png, pdf or json)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Render draws doc in format f.
func Render(ctx context.Context, doc *layout.Document, f Format, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	scene := BuildScene(doc, opts...)
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(f), scene.Entities())
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatSVG:
		data = scene.SVG()
	case FormatPNG:
		data, err = scene.PNG(o.scale)
	case FormatPDF:
		data, err = ToPDF(ctx, scene.SVG())
	case FormatJSON:
		data, err = scene.JSON()
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "unknown render format %q", f)
	}

	hooks.OnRenderComplete(ctx, string(f), len(data), time.Since(start), err)
	return data, err
}
