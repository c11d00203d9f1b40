package geo

import (
	"math"
	"sort"
)

// UnionRects computes the boundary polygon of each connected component of
// the union of rects, using coordinate compression and boundary-edge
// tracing — the standard technique for unioning axis-aligned rectangles.
// No general polygon-boolean library is available anywhere this project
// could draw from, and none is needed for the axis-aligned case this
// pipeline only ever produces.
//
// Rects that merely touch along an edge are treated as connected. Returns
// one CCW polygon per connected component (holes, which well-packed
// floorplans do not produce, are traced but discarded), sorted by
// descending area.
func UnionRects(rects []Rect, eps float64) []Polygon {
	if len(rects) == 0 {
		return nil
	}

	xs := compressedAxis(rects, eps, true)
	ys := compressedAxis(rects, eps, false)
	nx, ny := len(xs)-1, len(ys)-1
	if nx <= 0 || ny <= 0 {
		return nil
	}

	filled := make([][]bool, nx)
	for i := range filled {
		filled[i] = make([]bool, ny)
	}
	for _, r := range rects {
		x0, x1 := snapIndex(xs, r.X), snapIndex(xs, r.X2())
		y0, y1 := snapIndex(ys, r.Y), snapIndex(ys, r.Y2())
		for i := x0; i < x1; i++ {
			for j := y0; j < y1; j++ {
				filled[i][j] = true
			}
		}
	}

	var out []Polygon
	for _, comp := range floodFill(filled, nx, ny) {
		mask := make([][]bool, nx)
		for i := range mask {
			mask[i] = make([]bool, ny)
		}
		for _, c := range comp {
			mask[c[0]][c[1]] = true
		}
		if ring := traceOuterBoundary(mask, xs, ys, nx, ny); !ring.IsEmpty() {
			out = append(out, ring)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Area() > out[j].Area() })
	return out
}

// compressedAxis gathers every distinct (within eps) X (or Y, when
// useX is false) coordinate that bounds a rect, sorted ascending.
func compressedAxis(rects []Rect, eps float64, useX bool) []float64 {
	var vals []float64
	for _, r := range rects {
		if useX {
			vals = append(vals, r.X, r.X2())
		} else {
			vals = append(vals, r.Y, r.Y2())
		}
	}
	sort.Float64s(vals)
	out := vals[:0:0]
	for _, v := range vals {
		if len(out) == 0 || v-out[len(out)-1] > eps {
			out = append(out, v)
		}
	}
	return out
}

// snapIndex returns the index of the compressed-axis entry nearest v.
func snapIndex(axis []float64, v float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, a := range axis {
		d := math.Abs(a - v)
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

// floodFill groups filled grid cells into connected components (4-neighbor
// adjacency), each returned as a list of [i,j] cell indices.
func floodFill(filled [][]bool, nx, ny int) [][][2]int {
	visited := make([][]bool, nx)
	for i := range visited {
		visited[i] = make([]bool, ny)
	}
	var comps [][][2]int
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if !filled[i][j] || visited[i][j] {
				continue
			}
			var comp [][2]int
			stack := [][2]int{{i, j}}
			visited[i][j] = true
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp = append(comp, c)
				for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					ni, nj := c[0]+d[0], c[1]+d[1]
					if ni < 0 || ni >= nx || nj < 0 || nj >= ny {
						continue
					}
					if filled[ni][nj] && !visited[ni][nj] {
						visited[ni][nj] = true
						stack = append(stack, [2]int{ni, nj})
					}
				}
			}
			comps = append(comps, comp)
		}
	}
	return comps
}

type gridVertex struct{ i, j int }
type gridEdge struct{ from, to gridVertex }

// traceOuterBoundary XORs every filled cell's four CCW boundary edges
// against its neighbors' (shared edges between two filled cells cancel,
// since each cell's CCW winding traverses a shared edge in opposite
// directions) and walks what remains into closed rings, keeping only the
// one with the largest absolute area — the exterior boundary. Any
// remaining smaller rings are interior holes, which this pipeline's
// floorplans do not produce, and are discarded.
func traceOuterBoundary(mask [][]bool, xs, ys []float64, nx, ny int) Polygon {
	edges := map[gridEdge]bool{}
	addOrCancel := func(from, to gridVertex) {
		rev := gridEdge{to, from}
		if edges[rev] {
			delete(edges, rev)
			return
		}
		edges[gridEdge{from, to}] = true
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if !mask[i][j] {
				continue
			}
			bl := gridVertex{i, j}
			br := gridVertex{i + 1, j}
			tr := gridVertex{i + 1, j + 1}
			tl := gridVertex{i, j + 1}
			addOrCancel(bl, br)
			addOrCancel(br, tr)
			addOrCancel(tr, tl)
			addOrCancel(tl, bl)
		}
	}
	if len(edges) == 0 {
		return Polygon{}
	}

	adjacency := map[gridVertex]gridVertex{}
	for e := range edges {
		adjacency[e.from] = e.to
	}

	visited := map[gridVertex]bool{}
	var best Polygon
	bestArea := -1.0
	for start := range adjacency {
		if visited[start] {
			continue
		}
		var ring []Point2D
		cur := start
		for {
			if visited[cur] {
				break
			}
			visited[cur] = true
			ring = append(ring, Pt(xs[cur.i], ys[cur.j]))
			next, ok := adjacency[cur]
			if !ok {
				break
			}
			cur = next
			if cur == start {
				break
			}
		}
		poly := Polygon{Vertices: ring}
		if a := poly.Area(); a > bestArea {
			bestArea = a
			best = poly
		}
	}
	return best.EnsureCCW()
}
