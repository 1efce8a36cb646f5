package layout

import (
	"slices"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/geometry"
)

// Mode selects how a net is drawn.
type Mode string

const (
	// ModePolygon draws the closed convex hull of the pins.
	ModePolygon Mode = "polygon"
	// ModeSticky draws the hull plus one spoke from every interior pin to its
	// nearest hull vertex.
	ModeSticky Mode = "polygon-sticky"
	// ModeClique connects every pair of pins.
	ModeClique Mode = "clique"

	DefaultMode = ModeSticky
)

// Modes lists the supported topologies.
var Modes = []Mode{ModePolygon, ModeSticky, ModeClique}

// ParseMode validates a topology name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", errors.New(errors.ErrCodeInvalidNetMode, "unknown net mode %q (must be polygon, polygon-sticky or clique)", s)
	}
	return m, nil
}

// NetColors is the palette assigned to nets in creation order.
var NetColors = []string{
	"#FF00FF", "#3CB371", "#DC143C",
	"#228B22", "#FF1493", "#DAA520",
	"#EE82EE", "#FF7F50", "#800000",
}

// NetColor returns the palette color of the net with the given counter value.
func NetColor(n int) string { return NetColors[n%len(NetColors)] }

// Net is a group of pins that must be connected.
type Net struct {
	ID       int                `json:"id"`
	Pins     []int              `json:"pins"`
	Mode     Mode               `json:"mode"`
	Color    string             `json:"color"`
	Selected bool               `json:"selected,omitempty"`
	Segments []geometry.Segment `json:"segments,omitempty"`
}

// Hit reports whether p is on any rendered segment of n.
func (n *Net) Hit(p geometry.Point) bool {
	for _, s := range n.Segments {
		if s.Hit(p) {
			return true
		}
	}
	return false
}

// Render derives the segments drawn for a net whose pins sit at pts.
func Render(mode Mode, pts []geometry.Point) []geometry.Segment {
	if mode == ModeClique {
		return renderClique(pts)
	}
	switch len(pts) {
	case 0, 1:
		return nil
	case 2:
		return []geometry.Segment{geometry.Seg(pts[0], pts[1])}
	}

	hull := geometry.ConvexHull(pts)
	segs := renderLoop(pts, hull)
	if mode == ModeSticky {
		segs = append(segs, renderSpokes(pts, hull)...)
	}
	return segs
}

func renderClique(pts []geometry.Point) []geometry.Segment {
	var segs []geometry.Segment
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			segs = append(segs, geometry.Seg(pts[i], pts[j]))
		}
	}
	return segs
}

func renderLoop(pts []geometry.Point, hull []int) []geometry.Segment {
	switch len(hull) {
	case 0, 1:
		return nil
	case 2:
		return []geometry.Segment{geometry.Seg(pts[hull[0]], pts[hull[1]])}
	}
	segs := make([]geometry.Segment, 0, len(hull))
	for i := range hull {
		segs = append(segs, geometry.Seg(pts[hull[i]], pts[hull[(i+1)%len(hull)]]))
	}
	return segs
}

// renderSpokes links every non-hull point to its nearest hull vertex. On
// equal distances the earlier hull vertex is kept.
func renderSpokes(pts []geometry.Point, hull []int) []geometry.Segment {
	onHull := geometry.InHull(len(pts), hull)
	var segs []geometry.Segment
	for i, p := range pts {
		if onHull[i] {
			continue
		}
		best := hull[0]
		bestDist := geometry.SquaredDistance(p, pts[best])
		for _, h := range hull[1:] {
			if dist := geometry.SquaredDistance(p, pts[h]); dist < bestDist {
				best, bestDist = h, dist
			}
		}
		segs = append(segs, geometry.Seg(p, pts[best]))
	}
	return segs
}

// SetNetMode switches every net, and nets created later, to m.
func (d *Document) SetNetMode(m Mode) {
	d.defaults.Mode = m
	for _, n := range d.nets {
		n.Mode = m
	}
	d.UpdateNets(true)
}

// UpdateNets re-renders nets that need it, or every net when all is set.
func (d *Document) UpdateNets(all bool) {
	for _, n := range d.nets {
		if all || d.needsUpdate(n) {
			d.updateNet(n)
		}
	}
}

// needsUpdate reports whether any pin of n is selected, deleted or sits on
// a selected device.
func (d *Document) needsUpdate(n *Net) bool {
	for _, pid := range n.Pins {
		p := d.pins[pid]
		if p.Deleted || p.Selected {
			return true
		}
		if dev, ok := d.Device(p.Device); ok && dev.Selected {
			return true
		}
	}
	return false
}

func (d *Document) updateNet(n *Net) {
	n.Pins = slices.DeleteFunc(n.Pins, func(pid int) bool { return d.pins[pid].Deleted })
	pts := make([]geometry.Point, len(n.Pins))
	for i, pid := range n.Pins {
		pts[i] = d.pins[pid].Rect.Center
	}
	n.Segments = Render(n.Mode, pts)
}

// assignedPins returns the ids of the pins of n that are attached to a device.
func (d *Document) assignedPins(n *Net) []int {
	var ids []int
	for _, pid := range n.Pins {
		if d.pins[pid].Assigned() {
			ids = append(ids, pid)
		}
	}
	return ids
}
