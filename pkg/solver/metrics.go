package solver

import (
	"gonum.org/v1/gonum/floats"

	"github.com/placerlab/placer/pkg/geometry"
	pkgio "github.com/placerlab/placer/pkg/io"
)

// Metrics holds total wirelength estimates summed over all nets.
type Metrics struct {
	Manhattan     float64 `json:"manhattan"`
	HalfPerimeter float64 `json:"half_perimeter"`
	Clique        float64 `json:"clique"`
	Hybrid        float64 `json:"hybrid"`
}

// Wirelength measures every net of f at absolute pin positions.
func Wirelength(f *pkgio.File) Metrics {
	n := len(f.Nets)
	manh := make([]float64, n)
	hp := make([]float64, n)
	clique := make([]float64, n)
	hybrid := make([]float64, n)
	for i, net := range f.Nets {
		pts := make([]geometry.Point, 0, len(net.Pins))
		for _, pid := range net.Pins {
			if c, ok := f.PinCenter(pid); ok {
				pts = append(pts, c)
			}
		}
		manh[i] = Manhattan(pts)
		hp[i] = HalfPerimeter(pts)
		clique[i] = Clique(pts)
		hybrid[i] = Hybrid(pts)
	}
	return Metrics{
		Manhattan:     floats.Sum(manh),
		HalfPerimeter: floats.Sum(hp),
		Clique:        floats.Sum(clique),
		Hybrid:        floats.Sum(hybrid),
	}
}

// HalfPerimeter is half the perimeter of the bounding box of pts.
func HalfPerimeter(pts []geometry.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	xs, ys := coords(pts)
	return ((floats.Max(xs) - floats.Min(xs)) + (floats.Max(ys) - floats.Min(ys))) / 2
}

// Clique is the sum of pairwise Euclidean distances divided by n-1.
func Clique(pts []geometry.Point) float64 {
	return pairwise(pts, 2)
}

// Manhattan is the sum of pairwise rectilinear distances divided by n-1.
func Manhattan(pts []geometry.Point) float64 {
	return pairwise(pts, 1)
}

// Hybrid is the clique measure, scaled by the pin count for nets of more
// than three pins.
func Hybrid(pts []geometry.Point) float64 {
	c := Clique(pts)
	if len(pts) <= 3 {
		return c
	}
	return c * float64(len(pts))
}

func pairwise(pts []geometry.Point, norm float64) float64 {
	n := len(pts)
	if n <= 1 {
		return 0
	}
	d := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		a := []float64{float64(pts[i].X), float64(pts[i].Y)}
		for j := i + 1; j < n; j++ {
			b := []float64{float64(pts[j].X), float64(pts[j].Y)}
			d = append(d, floats.Distance(a, b, norm))
		}
	}
	return floats.Sum(d) / float64(n-1)
}

func coords(pts []geometry.Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = float64(p.X), float64(p.Y)
	}
	return xs, ys
}
