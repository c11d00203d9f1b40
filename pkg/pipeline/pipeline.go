// Package pipeline wires every stage — topology extraction, validation,
// layout solving, post-processing, layout validation, geometry synthesis,
// and IFC export — into the single entry point the CLI driver calls.
package pipeline

import (
	"context"
	"fmt"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/debugout"
	"github.com/topo2ifc/topo2ifc/pkg/export"
	"github.com/topo2ifc/topo2ifc/pkg/geometry"
	"github.com/topo2ifc/topo2ifc/pkg/ifcexport"
	"github.com/topo2ifc/topo2ifc/pkg/layout"
	"github.com/topo2ifc/topo2ifc/pkg/rdf"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
	"github.com/topo2ifc/topo2ifc/pkg/vocab"
)

// ErrorKind names a class of pipeline failure, independent of the
// particular diagnostic message.
type ErrorKind string

const (
	// ErrInputInvalid covers unparseable RDF or missing required triples.
	ErrInputInvalid ErrorKind = "INPUT_INVALID"
	// ErrTopologyInconsistent covers validator ERROR diagnostics: duplicate
	// ids, unknown edge endpoints, cyclic containment.
	ErrTopologyInconsistent ErrorKind = "TOPOLOGY_INCONSISTENT"
	// ErrLayoutInfeasible covers the CP solver failing to find any
	// placement within its time limit; recovered by falling back to the
	// heuristic solver.
	ErrLayoutInfeasible ErrorKind = "LAYOUT_INFEASIBLE"
	// ErrLayoutViolation covers overlap or oversize deviation detected by
	// the post-hoc layout validator; non-fatal, recorded as warnings.
	ErrLayoutViolation ErrorKind = "LAYOUT_VIOLATION"
	// ErrGeometryDegenerate covers a dropped wall or door whose geometry
	// fell below a length threshold.
	ErrGeometryDegenerate ErrorKind = "GEOMETRY_DEGENERATE"
	// ErrExportFailure covers the IFC writer rejecting the assembled model.
	ErrExportFailure ErrorKind = "EXPORT_FAILURE"
)

// Error is a typed pipeline failure carrying the stage's diagnostic
// report alongside the neutral error kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Report  *validation.Report
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is everything a successful Run produces: the solved geometry
// batches, the assembled IFC model, and the merged diagnostic report
// accumulated across every stage.
type Result struct {
	Graph  *topology.Graph
	Rects  []layout.Rect
	Walls  []geometry.WallSegment
	Slabs  []geometry.SlabPolygon
	Roofs  []geometry.Roof
	Doors  []geometry.Door
	Model  *ifcexport.Model
	Report *validation.Report
}

// Run executes the whole pipeline: extraction (B), graph validation (D),
// layout solving (E or F per cfg.Solver), post-processing (G), layout
// validation (H), geometry synthesis (I, J, K), and export assembly (L).
// Fatal stages (INPUT_INVALID, TOPOLOGY_INCONSISTENT, EXPORT_FAILURE)
// return a wrapped *Error; every other diagnostic is folded into the
// returned report instead of aborting the run.
func Run(ctx context.Context, store rdf.Store, reg vocab.Registry, projectName string, cfg config.Config) (*Result, error) {
	report := validation.NewReport()

	extracted, err := topology.Extract(store, reg)
	if err != nil {
		return nil, fmt.Errorf("%w", &Error{Kind: ErrInputInvalid, Message: err.Error()})
	}

	topoReport := topology.Validate(extracted)
	report.Merge(topoReport)
	if !topoReport.Valid {
		return nil, fmt.Errorf("%w", &Error{
			Kind: ErrTopologyInconsistent, Message: topoReport.Summary, Report: topoReport,
		})
	}

	g := extracted.Graph

	rects, solveReport := solve(ctx, g, cfg)
	report.Merge(solveReport)

	rects = layout.SnapToGrid(rects, cfg)

	if cfg.SingleStoreyMode {
		rects, _ = layout.ApplySingleStoreyMode(rects, g)
	}

	layoutStats, layoutReport := layout.ValidateLayout(g, rects, cfg.DefaultTargetArea)
	report.Merge(layoutReport)

	walls, wallsReport := geometry.ExtractWalls(rects, cfg, func(spaceID string) (float64, bool) {
		sp, ok := g.Space(spaceID)
		return sp.Height, ok
	})
	report.Merge(wallsReport)
	doors, doorsReport := geometry.ExtractDoors(g, rects, cfg)
	report.Merge(doorsReport)
	slabs, roofs := geometry.ExtractSlabs(rects, cfg, func(id string) (float64, float64, bool) {
		s, ok := g.Storey(id)
		return s.Elevation, s.Height, ok
	})

	model := export.ToIFC(projectName, g, rects, walls, slabs, roofs, doors)

	if cfg.DebugOutputDir != "" {
		if err := debugout.WriteLayout(cfg.DebugOutputDir, g, rects); err != nil {
			report.AddWarning(validation.Result{
				Level: validation.LevelLayout, Code: "DEBUG_WRITE_FAILED", Message: err.Error(),
			})
		}
		if err := debugout.WriteReport(cfg.DebugOutputDir, layoutStats, report); err != nil {
			report.AddWarning(validation.Result{
				Level: validation.LevelLayout, Code: "DEBUG_WRITE_FAILED", Message: err.Error(),
			})
		}
	}

	return &Result{
		Graph: g, Rects: rects, Walls: walls, Slabs: slabs, Roofs: roofs, Doors: doors,
		Model: model, Report: report,
	}, nil
}

// ValidateOnly runs extraction and topology validation only, the backing
// logic for the "validate" CLI subcommand.
func ValidateOnly(store rdf.Store, reg vocab.Registry) (*topology.Graph, *validation.Report, error) {
	extracted, err := topology.Extract(store, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w", &Error{Kind: ErrInputInvalid, Message: err.Error()})
	}
	report := topology.Validate(extracted)
	return extracted.Graph, report, nil
}

// solve dispatches to the configured solver. SolveCP already falls back
// to the heuristic solver per storey and records a LAYOUT_INFEASIBLE
// warning when its own search finds no feasible placement in time.
func solve(ctx context.Context, g *topology.Graph, cfg config.Config) ([]layout.Rect, *validation.Report) {
	if cfg.Solver == config.SolverCP {
		return layout.SolveCP(ctx, g, cfg)
	}
	return layout.SolveHeuristic(g, cfg)
}
