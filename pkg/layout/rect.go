// Package layout implements the two interchangeable rectangle-placement
// solvers (heuristic and constraint-optimization), the grid-snapping
// post-processor, and the layout validator.
package layout

import "github.com/topo2ifc/topo2ifc/pkg/geo"

// Rect is a solved placement for one space: its storey, position, and size.
type Rect struct {
	SpaceID  string
	StoreyID string
	X, Y     float64
	W, H     float64
}

// X2 returns the right edge's X coordinate.
func (r Rect) X2() float64 { return r.X + r.W }

// Y2 returns the top edge's Y coordinate.
func (r Rect) Y2() float64 { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Center returns the rectangle's centroid.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// AsGeoRect converts to the geometry package's Rect, dropping SpaceID.
func (r Rect) AsGeoRect() geo.Rect {
	return geo.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// Touches reports whether r and o share a boundary segment of length
// greater than eps, and if so returns that segment.
func (r Rect) Touches(o Rect, eps float64) (geo.Point2D, geo.Point2D, bool) {
	// Vertical shared boundary: r's right touches o's left, or vice versa.
	if absDiff(r.X2(), o.X) <= eps || absDiff(o.X2(), r.X) <= eps {
		x := r.X2()
		if absDiff(o.X2(), r.X) <= eps {
			x = r.X
		}
		lo := max(r.Y, o.Y)
		hi := min(r.Y2(), o.Y2())
		if hi-lo > eps {
			return geo.Pt(x, lo), geo.Pt(x, hi), true
		}
	}
	// Horizontal shared boundary: r's top touches o's bottom, or vice versa.
	if absDiff(r.Y2(), o.Y) <= eps || absDiff(o.Y2(), r.Y) <= eps {
		y := r.Y2()
		if absDiff(o.Y2(), r.Y) <= eps {
			y = r.Y
		}
		lo := max(r.X, o.X)
		hi := min(r.X2(), o.X2())
		if hi-lo > eps {
			return geo.Pt(lo, y), geo.Pt(hi, y), true
		}
	}
	return geo.Point2D{}, geo.Point2D{}, false
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
