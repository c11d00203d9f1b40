package layout

import (
	"math"
	"math/rand"
	"sort"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// maxStripWidth caps the strip-packing shelf width (metres).
const maxStripWidth = 30.0

// touchTolerance is the looser tolerance the hill-climb's adjacency scoring
// uses to decide whether two rectangles are "touching" (as opposed to the
// stricter coordinate-equality epsilon the rest of the pipeline uses).
const touchTolerance = 0.1

// SolveHeuristic places every space of topo on its storey's envelope using
// a BFS-ordered shelf/grid pack plus a bounded hill-climb refinement pass.
// Every space receives exactly one rectangle; overlap is impossible by
// construction (the shelf/grid placement never overlaps, and the hill
// climb rejects any swap that would introduce one).
func SolveHeuristic(topo *topology.Graph, cfg config.Config) ([]Rect, *validation.Report) {
	report := validation.NewReport()
	rng := rand.New(rand.NewSource(cfg.Seed))

	var all []Rect
	for _, storey := range topo.Storeys() {
		spaces := topo.SpacesOnStorey(storey.ID)
		if len(spaces) == 0 {
			continue
		}
		rects := solveStorey(topo, storey.ID, spaces, cfg, rng, report)
		all = append(all, rects...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].SpaceID < all[j].SpaceID })
	return all, report
}

func solveStorey(topo *topology.Graph, storeyID string, spaces []topology.Space, cfg config.Config, rng *rand.Rand, report *validation.Report) []Rect {
	order := bfsOrderForStorey(topo, storeyID, spaces)
	sparse := storeyHasNoEdges(topo, storeyID)

	var rects []Rect
	if sparse {
		rects = compactGridPlacement(topo, storeyID, order, cfg, report)
	} else {
		rects = initialPlacement(topo, storeyID, order, cfg, report)
	}
	return hillClimb(topo, storeyID, rects, cfg, rng)
}

// bfsOrderForStorey orders a storey's spaces by BFS, rooted at the space
// with the most adjacency/connection edges (ties broken by lowest id) but
// preferring a circulation-tagged space (corridor, entrance, stair,
// elevator) as the root, then appending disconnected components in
// descending size order.
func bfsOrderForStorey(topo *topology.Graph, storeyID string, _ []topology.Space) []string {
	comps := topo.Components(storeyID)
	degree := map[string]int{}
	for _, pair := range topo.AdjacentPairs() {
		degree[pair[0]]++
		degree[pair[1]]++
	}
	var order []string
	for _, comp := range comps {
		root := comp[0]
		for _, id := range comp {
			if degree[id] > degree[root] {
				root = id
			}
		}
		for _, id := range comp {
			sp, _ := topo.Space(id)
			if sp.Category.IsCirculation() {
				root = id
				break
			}
		}
		bfsOrder, err := topo.BFSOrder(root)
		if err != nil {
			order = append(order, comp...)
			continue
		}
		inComp := map[string]bool{}
		for _, id := range comp {
			inComp[id] = true
		}
		for _, id := range bfsOrder {
			if inComp[id] {
				order = append(order, id)
			}
		}
	}
	return order
}

func storeyHasNoEdges(topo *topology.Graph, storeyID string) bool {
	onStorey := map[string]bool{}
	for _, s := range topo.SpacesOnStorey(storeyID) {
		onStorey[s.ID] = true
	}
	for _, e := range topo.Edges() {
		if onStorey[e.SpaceA] && onStorey[e.SpaceB] {
			return false
		}
	}
	return true
}

// initialDims computes a near-square (or configured aspect ratio) starting
// size from a target area.
func initialDims(area, aspectRatio float64) (w, h float64) {
	if aspectRatio <= 0 {
		aspectRatio = 1.0
	}
	w = math.Sqrt(area * aspectRatio)
	h = area / w
	return w, h
}

func spaceDims(topo *topology.Graph, sid string, cfg config.Config) (w, h float64) {
	sp, _ := topo.Space(sid)
	area := sp.EffectiveAreaTarget(cfg.DefaultTargetArea)
	minSide := cfg.MinSideLength
	if area < minSide*minSide {
		area = minSide * minSide
	}
	ratio := 1.0
	if sp.AspectRatioMin > 0 {
		ratio = sp.AspectRatioMin
	}
	w, h = initialDims(area, ratio)
	grid := cfg.GridUnit
	w = math.Max(minSide, math.Round(w/grid)*grid)
	h = math.Max(minSide, math.Round(h/grid)*grid)
	return w, h
}

func initialPlacement(topo *topology.Graph, storeyID string, order []string, cfg config.Config, report *validation.Report) []Rect {
	dims := map[string][2]float64{}
	totalArea, maxW := 0.0, 0.0
	for _, sid := range order {
		w, h := spaceDims(topo, sid, cfg)
		dims[sid] = [2]float64{w, h}
		totalArea += w * h
		if w > maxW {
			maxW = w
		}
		recordMinSideWarning(topo, sid, cfg, report)
	}

	slack := cfg.AreaSlackFactor
	if slack <= 0 {
		slack = 1.0
	}
	envelope := math.Sqrt(totalArea * slack)
	stripWidth := math.Max(maxW, envelope)
	stripWidth = math.Min(stripWidth, maxStripWidth)

	var rects []Rect
	xCursor, yCursor, rowHeight := 0.0, 0.0, 0.0
	for _, sid := range order {
		wh := dims[sid]
		w, h := wh[0], wh[1]
		if xCursor+w > stripWidth && xCursor > 0 {
			yCursor += rowHeight
			xCursor, rowHeight = 0, 0
		}
		rects = append(rects, Rect{SpaceID: sid, StoreyID: storeyID, X: xCursor, Y: yCursor, W: w, H: h})
		xCursor += w
		rowHeight = math.Max(rowHeight, h)
	}
	return rects
}

func compactGridPlacement(topo *topology.Graph, storeyID string, order []string, cfg config.Config, report *validation.Report) []Rect {
	if len(order) == 0 {
		return nil
	}
	dims := map[string][2]float64{}
	for _, sid := range order {
		w, h := spaceDims(topo, sid, cfg)
		dims[sid] = [2]float64{w, h}
		recordMinSideWarning(topo, sid, cfg, report)
	}

	nCols := int(math.Ceil(math.Sqrt(float64(len(order)))))
	if nCols < 1 {
		nCols = 1
	}

	var rows [][]string
	for i := 0; i < len(order); i += nCols {
		end := i + nCols
		if end > len(order) {
			end = len(order)
		}
		rows = append(rows, order[i:end])
	}

	rowWidths := make([]float64, len(rows))
	rowHeights := make([]float64, len(rows))
	maxRowW := 0.0
	for ri, row := range rows {
		w, h := 0.0, 0.0
		for _, sid := range row {
			w += dims[sid][0]
			if dims[sid][1] > h {
				h = dims[sid][1]
			}
		}
		rowWidths[ri], rowHeights[ri] = w, h
		if w > maxRowW {
			maxRowW = w
		}
	}

	var rects []Rect
	yCursor := 0.0
	for ri, row := range rows {
		xCursor := (maxRowW - rowWidths[ri]) / 2.0
		for _, sid := range row {
			wh := dims[sid]
			rects = append(rects, Rect{SpaceID: sid, StoreyID: storeyID, X: xCursor, Y: yCursor, W: wh[0], H: wh[1]})
			xCursor += wh[0]
		}
		yCursor += rowHeights[ri]
	}
	return rects
}

func recordMinSideWarning(topo *topology.Graph, sid string, cfg config.Config, report *validation.Report) {
	sp, _ := topo.Space(sid)
	target := sp.EffectiveAreaTarget(cfg.DefaultTargetArea)
	if target < cfg.MinSideLength*cfg.MinSideLength {
		report.AddWarning(validation.Result{
			Level: validation.LevelLayout, Code: "LAYOUT_VIOLATION",
			Message: "space target area is smaller than the minimum side length squared; minimum side wins",
			Refs:    []string{sid},
		})
	}
}

func hillClimb(topo *topology.Graph, storeyID string, rects []Rect, cfg config.Config, rng *rand.Rand) []Rect {
	desired := desiredPairs(topo, storeyID)
	if len(desired) == 0 || len(rects) < 2 {
		return rects
	}

	rectMap := make(map[string]Rect, len(rects))
	for _, r := range rects {
		rectMap[r.SpaceID] = r
	}
	bestScore := adjacencyScore(rectMap, desired)

	maxIter := cfg.MaxIterFor(len(rects))
	for iter := 0; iter < maxIter; iter++ {
		i := rng.Intn(len(rects))
		j := rng.Intn(len(rects))
		if i == j {
			continue
		}
		ri, rj := rects[i], rects[j]
		riNew := Rect{SpaceID: ri.SpaceID, StoreyID: ri.StoreyID, X: rj.X, Y: rj.Y, W: ri.W, H: ri.H}
		rjNew := Rect{SpaceID: rj.SpaceID, StoreyID: rj.StoreyID, X: ri.X, Y: ri.Y, W: rj.W, H: rj.H}
		rectMap[ri.SpaceID] = riNew
		rectMap[rj.SpaceID] = rjNew

		score := adjacencyScore(rectMap, desired)
		if score >= bestScore && !hasOverlaps(valuesOf(rectMap)) {
			rects[i] = riNew
			rects[j] = rjNew
			bestScore = score
		} else {
			rectMap[ri.SpaceID] = ri
			rectMap[rj.SpaceID] = rj
		}
	}
	return rects
}

func valuesOf(m map[string]Rect) []Rect {
	out := make([]Rect, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

func desiredPairs(topo *topology.Graph, storeyID string) map[[2]string]bool {
	onStorey := map[string]bool{}
	for _, s := range topo.SpacesOnStorey(storeyID) {
		onStorey[s.ID] = true
	}
	out := map[[2]string]bool{}
	for _, pair := range topo.AdjacentPairs() {
		if onStorey[pair[0]] && onStorey[pair[1]] {
			out[pair] = true
		}
	}
	return out
}

func adjacencyScore(rectMap map[string]Rect, desired map[[2]string]bool) float64 {
	if len(desired) == 0 {
		return 1.0
	}
	satisfied := 0
	for pair := range desired {
		ra, okA := rectMap[pair[0]]
		rb, okB := rectMap[pair[1]]
		if !okA || !okB {
			continue
		}
		if rectsTouch(ra, rb, touchTolerance) {
			satisfied++
		}
	}
	return float64(satisfied) / float64(len(desired))
}

func rectsTouch(a, b Rect, tol float64) bool {
	xGap := math.Max(a.X, b.X) - math.Min(a.X2(), b.X2())
	yGap := math.Max(a.Y, b.Y) - math.Min(a.Y2(), b.Y2())
	xTouch := math.Abs(xGap) <= tol
	yOverlap := math.Min(a.Y2(), b.Y2())-math.Max(a.Y, b.Y) > tol
	yTouch := math.Abs(yGap) <= tol
	xOverlap := math.Min(a.X2(), b.X2())-math.Max(a.X, b.X) > tol
	return (xTouch && yOverlap) || (yTouch && xOverlap)
}

func hasOverlaps(rects []Rect) bool {
	const tol = 0.01
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			interW := math.Min(a.X2(), b.X2()) - math.Max(a.X, b.X)
			interH := math.Min(a.Y2(), b.Y2()) - math.Max(a.Y, b.Y)
			if interW > tol && interH > tol {
				return true
			}
		}
	}
	return false
}
