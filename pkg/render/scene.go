package render

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"

	"github.com/placerlab/placer/pkg/geometry"
	"github.com/placerlab/placer/pkg/layout"
)

// Scene colors.
const (
	ColorBackground = "#FAF8F8"
	ColorDevice     = "#FCE205"
	ColorPin        = "#FF3232"
	ColorOutline    = "#000000"
	ColorSelected   = "#0000FF"
	ColorNetActive  = "#FF0000"
	ColorGrid       = "#E4E0E0"
)

const (
	outlineWidth     = 2
	netWidth         = 2
	selectedNetWidth = 3
)

// Shape is a filled and outlined rectangle.
type Shape struct {
	Entity      layout.Entity `json:"entity"`
	Rect        geometry.Rect `json:"rect"`
	Fill        string        `json:"fill"`
	Stroke      string        `json:"stroke"`
	StrokeWidth float64       `json:"stroke_width"`
}

// Line is a stroked net segment.
type Line struct {
	Net   int              `json:"net"`
	Seg   geometry.Segment `json:"seg"`
	Color string           `json:"color"`
	Width float64          `json:"width"`
}

// Scene is a document flattened into drawing primitives. Shapes are in
// z-order and lines are drawn on top of them.
type Scene struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Grid   int     `json:"grid,omitempty"`
	Shapes []Shape `json:"shapes"`
	Lines  []Line  `json:"lines"`
}

// Option configures rendering.
type Option func(*options)

type options struct {
	scale float64
	grid  int
}

// WithScale sets the PNG scale factor. The default is 1.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithGrid draws a background grid with the given step in pixels.
func WithGrid(step int) Option { return func(o *options) { o.grid = max(step, 0) } }

func newOptions(opts []Option) options {
	o := options{scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BuildScene flattens doc. Nets are re-rendered first so their segments
// follow the current pin positions.
func BuildScene(doc *layout.Document, opts ...Option) Scene {
	o := newOptions(opts)
	doc.UpdateNets(true)

	s := Scene{Width: doc.Width, Height: doc.Height, Grid: o.grid}
	for _, e := range doc.ZOrder() {
		r, ok := doc.Rect(e)
		if !ok {
			continue
		}
		sh := Shape{Entity: e, Rect: r, Fill: ColorPin, Stroke: ColorOutline, StrokeWidth: outlineWidth}
		if e.IsDevice() {
			sh.Fill = ColorDevice
		}
		if selected(doc, e) {
			sh.Stroke = ColorSelected
		}
		s.Shapes = append(s.Shapes, sh)
	}
	for _, n := range doc.Nets() {
		c, w := n.Color, float64(netWidth)
		if n.Selected {
			c, w = ColorNetActive, selectedNetWidth
		}
		for _, seg := range n.Segments {
			s.Lines = append(s.Lines, Line{Net: n.ID, Seg: seg, Color: c, Width: w})
		}
	}
	return s
}

func selected(doc *layout.Document, e layout.Entity) bool {
	if e.IsDevice() {
		d, ok := doc.Device(e.ID)
		return ok && d.Selected
	}
	p, ok := doc.Pin(e.ID)
	return ok && p.Selected
}

// Entities is the number of shapes plus the number of nets drawn.
func (s Scene) Entities() int {
	nets := make(map[int]struct{})
	for _, l := range s.Lines {
		nets[l.Net] = struct{}{}
	}
	return len(s.Shapes) + len(nets)
}

// parseColor reads a #RRGGBB color.
func parseColor(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("bad color %q", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// JSON encodes the scene.
func (s Scene) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
