package layout

import (
	"testing"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/geometry"
)

func pts(xy ...int) []geometry.Point {
	out := make([]geometry.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geometry.Pt(xy[i], xy[i+1]))
	}
	return out
}

func TestRenderSmallNets(t *testing.T) {
	for _, mode := range Modes {
		if got := Render(mode, nil); len(got) != 0 {
			t.Errorf("%s: empty net rendered %d segments", mode, len(got))
		}
		if got := Render(mode, pts(1, 1)); len(got) != 0 {
			t.Errorf("%s: single pin rendered %d segments", mode, len(got))
		}
		got := Render(mode, pts(0, 0, 10, 5))
		if len(got) != 1 || got[0] != geometry.Seg(geometry.Pt(0, 0), geometry.Pt(10, 5)) {
			t.Errorf("%s: two pins rendered %v, want one segment", mode, got)
		}
	}
}

func TestRenderClique(t *testing.T) {
	got := Render(ModeClique, pts(0, 0, 10, 0, 5, 10, 5, 5))
	if len(got) != 6 {
		t.Fatalf("clique of 4 rendered %d segments, want 6", len(got))
	}
	if got[0] != geometry.Seg(geometry.Pt(0, 0), geometry.Pt(10, 0)) {
		t.Errorf("first segment = %v", got[0])
	}
}

func TestRenderPolygon(t *testing.T) {
	p := pts(0, 0, 10, 0, 5, 10, 5, 5)
	got := Render(ModePolygon, p)
	want := []geometry.Segment{
		geometry.Seg(p[0], p[1]),
		geometry.Seg(p[1], p[2]),
		geometry.Seg(p[2], p[0]),
	}
	if len(got) != len(want) {
		t.Fatalf("polygon rendered %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderSticky(t *testing.T) {
	p := pts(0, 0, 10, 0, 5, 10, 5, 5)
	got := Render(ModeSticky, p)
	if len(got) != 4 {
		t.Fatalf("sticky rendered %d segments, want 3 hull + 1 spoke", len(got))
	}
	// (5,5) is 50 from (0,0), 50 from (10,0) and 25 from (5,10).
	if spoke := got[3]; spoke != geometry.Seg(p[3], p[2]) {
		t.Errorf("spoke = %v, want (5,5)-(5,10)", spoke)
	}
}

func TestRenderStickyTieKeepsFirstHullVertex(t *testing.T) {
	// Square hull starting at (0,0); the center is equidistant from all corners.
	p := pts(0, 0, 10, 0, 10, 10, 0, 10, 5, 5)
	got := Render(ModeSticky, p)
	if len(got) != 5 {
		t.Fatalf("rendered %d segments, want 4 hull + 1 spoke", len(got))
	}
	if spoke := got[4]; spoke.B != geometry.Pt(0, 0) {
		t.Errorf("spoke target = %v, want first hull vertex (0,0)", spoke.B)
	}
}

func TestRenderStickySpokePerInteriorPoint(t *testing.T) {
	p := pts(0, 0, 100, 0, 100, 100, 0, 100, 10, 10, 90, 15, 50, 80, 45, 45)
	got := Render(ModeSticky, p)
	hull := geometry.ConvexHull(p)
	if len(got) != len(p) {
		t.Fatalf("rendered %d segments, want %d", len(got), len(p))
	}
	for i, s := range got[len(hull):] {
		interior := p[4+i]
		if s.A != interior {
			t.Errorf("spoke %d starts at %v, want %v", i, s.A, interior)
		}
		for _, h := range hull {
			if geometry.SquaredDistance(interior, p[h]) < geometry.SquaredDistance(interior, s.B) {
				t.Errorf("spoke %d target %v is not the nearest hull vertex", i, s.B)
			}
		}
	}
}

func TestNetUpdatesFollowPins(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	a := d.AddPin(90, 100, 5, 5)
	b := d.AddPin(300, 100, 5, 5)
	n := d.AddNet([]int{a.ID, b.ID})

	d.Select(DeviceRef(dev.ID))
	d.Drag(geometry.Pt(0, 50))

	want := geometry.Seg(geometry.Pt(90, 150), geometry.Pt(300, 100))
	if len(n.Segments) != 1 || n.Segments[0] != want {
		t.Errorf("segments = %v, want [%v]", n.Segments, want)
	}
}

func TestSetNetMode(t *testing.T) {
	d := New(WithMode(ModePolygon))
	var ids []int
	for _, xy := range [][2]int{{0, 0}, {100, 0}, {50, 100}, {50, 40}} {
		ids = append(ids, d.AddPin(xy[0], xy[1], 5, 5).ID)
	}
	n := d.AddNet(ids)
	if len(n.Segments) != 3 {
		t.Fatalf("polygon segments = %d, want 3", len(n.Segments))
	}
	d.SetNetMode(ModeClique)
	if n.Mode != ModeClique || len(n.Segments) != 6 {
		t.Errorf("after SetNetMode: mode %s, %d segments, want clique, 6", n.Mode, len(n.Segments))
	}
	if d.Mode() != ModeClique {
		t.Errorf("Mode() = %s, want clique", d.Mode())
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		if got, err := ParseMode(string(m)); err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("spline"); !errors.Is(err, errors.ErrCodeInvalidNetMode) {
		t.Errorf("ParseMode(spline) error = %v, want INVALID_NET_MODE", err)
	}
}

func TestNetColorCycles(t *testing.T) {
	if NetColor(0) != NetColor(len(NetColors)) {
		t.Error("palette should wrap around")
	}
	if NetColor(1) != "#3CB371" {
		t.Errorf("NetColor(1) = %s", NetColor(1))
	}
}
