package layout

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// SolveCP places every space using a bounded, deterministic search per
// storey: starting from the heuristic's shelf placement, it moves one
// rectangle at a time by whole grid steps along X or Y, keeping moves that
// avoid overlap and do not raise the objective (target-area deviation,
// bounding-box compactness, and distance between desired-adjacent pairs).
// Widths and heights stay those of the shelf placement; no area floor is
// checked. It never runs past cfg.SolverTimeLimitSec: on timeout a storey
// keeps the best placement found so far. When a storey's starting placement
// is infeasible it falls back to SolveHeuristic for that storey and records
// a warning.
func SolveCP(ctx context.Context, topo *topology.Graph, cfg config.Config) ([]Rect, *validation.Report) {
	report := validation.NewReport()
	rng := rand.New(rand.NewSource(cfg.Seed))

	storeys := topo.Storeys()
	limit := cfg.SolverTimeLimitSec
	if limit <= 0 {
		limit = 30
	}
	perStorey := time.Duration(limit) * time.Second
	if n := len(storeys); n > 1 {
		perStorey /= time.Duration(n)
	}

	var all []Rect
	for _, storey := range storeys {
		spaces := topo.SpacesOnStorey(storey.ID)
		if len(spaces) == 0 {
			continue
		}
		deadline := time.Now().Add(perStorey)
		sctx, cancel := context.WithDeadline(ctx, deadline)
		rects, ok := solveStoreyCP(sctx, topo, storey.ID, spaces, cfg, rng)
		cancel()
		if !ok {
			report.AddWarning(validation.Result{
				Level: validation.LevelLayout, Code: "LAYOUT_INFEASIBLE",
				Message: "CP solver found no feasible placement within the time limit; used the heuristic solver instead",
				Refs:    []string{storey.ID},
			})
			rects = solveStorey(topo, storey.ID, spaces, cfg, rng, report)
		}
		all = append(all, rects...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].SpaceID < all[j].SpaceID })
	return all, report
}

// cpCandidate is one lattice-quantized placement attempt for a storey, used
// to track the best-bound solution the branch-and-bound search has found.
type cpCandidate struct {
	rects []Rect
	cost  float64
}

// solveStoreyCP runs the bounded search for a single storey. It starts from
// the heuristic's shelf placement (always feasible) as an incumbent, then
// explores grid-snapped perturbations, keeping any candidate that lowers
// the objective and rejecting any that introduces overlap. This is the
// branch-and-bound's bounding step: a candidate whose partial cost already
// exceeds the incumbent is pruned before its overlap is even checked.
func solveStoreyCP(ctx context.Context, topo *topology.Graph, storeyID string, spaces []topology.Space, cfg config.Config, rng *rand.Rand) ([]Rect, bool) {
	order := bfsOrderForStorey(topo, storeyID, spaces)
	rects := initialPlacement(topo, storeyID, order, cfg, validation.NewReport())
	if hasOverlaps(rects) {
		return nil, false
	}

	desired := desiredPairs(topo, storeyID)
	best := cpCandidate{rects: cloneRects(rects), cost: cpObjective(rects, topo, cfg, desired)}

	grid := cfg.GridUnit
	if grid <= 0 {
		grid = 0.05
	}
	if len(rects) < 2 {
		return best.rects, true
	}

	// The iteration budget is fixed by problem size, not wall-clock time, so
	// the search is reproducible under a fixed seed; ctx only ever shortens
	// a run early, it never lengthens one.
	maxIter := cfg.MaxIterFor(len(rects))
	for iter := 0; iter < maxIter; iter++ {
		if iter%64 == 0 {
			select {
			case <-ctx.Done():
				return best.rects, true
			default:
			}
		}

		cand := cloneRects(best.rects)
		i := rng.Intn(len(cand))
		axis := rng.Intn(2)
		step := grid * float64(1+rng.Intn(4))
		if rng.Intn(2) == 0 {
			step = -step
		}
		if axis == 0 {
			cand[i].X = math.Max(0, cand[i].X+step)
		} else {
			cand[i].Y = math.Max(0, cand[i].Y+step)
		}

		cost := cpObjective(cand, topo, cfg, desired)
		if cost > best.cost {
			continue // bound: worse than incumbent, prune without an overlap check
		}
		if hasOverlaps(cand) {
			continue
		}
		best = cpCandidate{rects: cand, cost: cost}
	}
	return best.rects, true
}

func cloneRects(rects []Rect) []Rect {
	out := make([]Rect, len(rects))
	copy(out, rects)
	return out
}

// cpObjective mirrors the surviving terms of the original constraint
// model's minimization: area-deviation penalty, bounding-box compactness,
// and Manhattan distance between centers of desired-adjacent pairs.
func cpObjective(rects []Rect, topo *topology.Graph, cfg config.Config, desired map[[2]string]bool) float64 {
	byID := make(map[string]Rect, len(rects))
	maxX, maxY := 0.0, 0.0
	var areaDev float64
	for _, r := range rects {
		byID[r.SpaceID] = r
		maxX = math.Max(maxX, r.X2())
		maxY = math.Max(maxY, r.Y2())
		sp, ok := topo.Space(r.SpaceID)
		if !ok {
			continue
		}
		target := sp.EffectiveAreaTarget(cfg.DefaultTargetArea)
		areaDev += math.Abs(r.Area() - target)
	}

	var pairDist float64
	for pair := range desired {
		a, okA := byID[pair[0]]
		b, okB := byID[pair[1]]
		if !okA || !okB {
			continue
		}
		ax, ay := a.Center()
		bx, by := b.Center()
		pairDist += math.Abs(ax-bx) + math.Abs(ay-by)
	}

	areaWeight := cfg.ObjectiveAreaWeight
	if areaWeight <= 0 {
		areaWeight = 10
	}
	compactWeight := cfg.ObjectiveCompactnessWeight
	if compactWeight <= 0 {
		compactWeight = 1
	}
	return areaWeight*areaDev + compactWeight*(maxX+maxY) + pairDist
}
