package geometry

import (
	"cmp"
	"slices"
)

// ConvexHull returns the indices of the points on the convex hull of pts in
// counter-clockwise order (y axis pointing up), starting from the lowest,
// leftmost point.
//
// Points lying on a hull edge but not at a corner are excluded, and a set of
// coincident points contributes at most one index. Fewer than
// three input points are returned as-is; callers draw those cases directly.
// If every point is collinear the two extreme points are returned.
func ConvexHull(pts []Point) []int {
	n := len(pts)
	if n < 3 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(pts[a].X, pts[b].X); c != 0 {
			return c
		}
		return cmp.Compare(pts[a].Y, pts[b].Y)
	})

	// Andrew's monotone chain over the sorted order.
	hull := make([]int, 0, 2*n)
	for _, i := range order {
		for len(hull) >= 2 && cross(pts[hull[len(hull)-2]], pts[hull[len(hull)-1]], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	lower := len(hull) + 1
	for k := n - 2; k >= 0; k-- {
		i := order[k]
		for len(hull) >= lower && cross(pts[hull[len(hull)-2]], pts[hull[len(hull)-1]], pts[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	hull = hull[:len(hull)-1]

	if len(hull) == 2 && pts[hull[0]] == pts[hull[1]] {
		return hull[:1]
	}
	return rotateToLowest(pts, hull)
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point) int64 {
	return int64(b.X-a.X)*int64(c.Y-a.Y) - int64(b.Y-a.Y)*int64(c.X-a.X)
}

func rotateToLowest(pts []Point, hull []int) []int {
	start := 0
	for i, idx := range hull {
		p, s := pts[idx], pts[hull[start]]
		if p.Y < s.Y || (p.Y == s.Y && p.X < s.X) {
			start = i
		}
	}
	out := make([]int, 0, len(hull))
	out = append(out, hull[start:]...)
	return append(out, hull[:start]...)
}

// InHull returns a membership mask for the indices returned by [ConvexHull].
func InHull(n int, hull []int) []bool {
	mask := make([]bool, n)
	for _, i := range hull {
		mask[i] = true
	}
	return mask
}
