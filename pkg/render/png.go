package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/placerlab/placer/pkg/geometry"
	"github.com/placerlab/placer/pkg/layout"
)

// RenderPNG rasterizes doc. It needs no external tools.
func RenderPNG(doc *layout.Document, opts ...Option) ([]byte, error) {
	return BuildScene(doc, opts...).PNG(newOptions(opts).scale)
}

// PNG rasterizes the scene and encodes it.
func (s Scene) PNG(scale float64) ([]byte, error) {
	img, err := s.Rasterize(scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rasterize draws the scene into an image scaled by scale.
func (s Scene) Rasterize(scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(float64(s.Width) * scale))
	h := int(math.Ceil(float64(s.Height) * scale))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	p := painter{img: img, scale: float32(scale), z: vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())}

	bg, _ := parseColor(ColorBackground)
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if s.Grid > 0 {
		grid, _ := parseColor(ColorGrid)
		for x := s.Grid; x < s.Width; x += s.Grid {
			p.line(geometry.Pt(x, 0), geometry.Pt(x, s.Height), 1, grid)
		}
		for y := s.Grid; y < s.Height; y += s.Grid {
			p.line(geometry.Pt(0, y), geometry.Pt(s.Width, y), 1, grid)
		}
	}

	for _, sh := range s.Shapes {
		fill, err := parseColor(sh.Fill)
		if err != nil {
			return nil, err
		}
		stroke, err := parseColor(sh.Stroke)
		if err != nil {
			return nil, err
		}
		p.rect(sh.Rect, fill)
		p.outline(sh.Rect, sh.StrokeWidth, stroke)
	}
	for _, l := range s.Lines {
		c, err := parseColor(l.Color)
		if err != nil {
			return nil, err
		}
		p.line(l.Seg.A, l.Seg.B, l.Width, c)
	}
	return img, nil
}

type painter struct {
	img   *image.RGBA
	scale float32
	z     *vector.Rasterizer
}

func (p *painter) polygon(c color.RGBA, pts ...[2]float32) {
	b := p.img.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
	p.z.MoveTo(pts[0][0]*p.scale, pts[0][1]*p.scale)
	for _, pt := range pts[1:] {
		p.z.LineTo(pt[0]*p.scale, pt[1]*p.scale)
	}
	p.z.ClosePath()
	p.z.Draw(p.img, b, image.NewUniform(c), image.Point{})
}

func (p *painter) box(x0, y0, x1, y1 float32, c color.RGBA) {
	p.polygon(c, [2]float32{x0, y0}, [2]float32{x1, y0}, [2]float32{x1, y1}, [2]float32{x0, y1})
}

func (p *painter) rect(r geometry.Rect, c color.RGBA) {
	lo, hi := r.Min(), r.Max()
	p.box(float32(lo.X), float32(lo.Y), float32(hi.X), float32(hi.Y), c)
}

// outline strokes the border of r centered on its edges.
func (p *painter) outline(r geometry.Rect, width float64, c color.RGBA) {
	lo, hi := r.Min(), r.Max()
	x0, y0, x1, y1 := float32(lo.X), float32(lo.Y), float32(hi.X), float32(hi.Y)
	h := float32(width) / 2
	p.box(x0-h, y0-h, x1+h, y0+h, c)
	p.box(x0-h, y1-h, x1+h, y1+h, c)
	p.box(x0-h, y0+h, x0+h, y1-h, c)
	p.box(x1-h, y0+h, x1+h, y1-h, c)
}

// line strokes a segment as a quad of the given width.
func (p *painter) line(a, b geometry.Point, width float64, c color.RGBA) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	n := math.Hypot(dx, dy)
	if n == 0 {
		h := float32(width) / 2
		p.box(float32(a.X)-h, float32(a.Y)-h, float32(a.X)+h, float32(a.Y)+h, c)
		return
	}
	nx, ny := float32(-dy/n*width/2), float32(dx/n*width/2)
	ax, ay, bx, by := float32(a.X), float32(a.Y), float32(b.X), float32(b.Y)
	p.polygon(c,
		[2]float32{ax + nx, ay + ny},
		[2]float32{bx + nx, by + ny},
		[2]float32{bx - nx, by - ny},
		[2]float32{ax - nx, ay - ny},
	)
}
