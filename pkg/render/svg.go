package render

import (
	"bytes"
	"fmt"

	"github.com/placerlab/placer/pkg/layout"
)

// RenderSVG draws doc as an SVG document the size of its canvas.
func RenderSVG(doc *layout.Document, opts ...Option) []byte {
	return BuildScene(doc, opts...).SVG()
}

// SVG writes the scene as an SVG document.
func (s Scene) SVG() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", ColorBackground)

	if s.Grid > 0 {
		renderGrid(&buf, s)
	}

	buf.WriteString(`  <g class="entities">` + "\n")
	for _, sh := range s.Shapes {
		lo := sh.Rect.Min()
		fmt.Fprintf(&buf, `    <rect id="%s-%d" x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
			sh.Entity.Kind, sh.Entity.ID, lo.X, lo.Y, 2*sh.Rect.HW, 2*sh.Rect.HH, sh.Fill, sh.Stroke, sh.StrokeWidth)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nets" stroke-linecap="round">` + "\n")
	for _, l := range s.Lines {
		fmt.Fprintf(&buf, `    <line class="net-%d" x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%g"/>`+"\n",
			l.Net, l.Seg.A.X, l.Seg.A.Y, l.Seg.B.X, l.Seg.B.Y, l.Color, l.Width)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, s Scene) {
	fmt.Fprintf(buf, `  <g class="grid" stroke="%s" stroke-width="1">`+"\n", ColorGrid)
	for x := s.Grid; x < s.Width; x += s.Grid {
		fmt.Fprintf(buf, `    <line x1="%d" y1="0" x2="%d" y2="%d"/>`+"\n", x, x, s.Height)
	}
	for y := s.Grid; y < s.Height; y += s.Grid {
		fmt.Fprintf(buf, `    <line x1="0" y1="%d" x2="%d" y2="%d"/>`+"\n", y, s.Width, y)
	}
	buf.WriteString("  </g>\n")
}
