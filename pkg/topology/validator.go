package topology

import (
	"fmt"

	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// Validate checks a topology graph for the structural problems the
// downstream solvers cannot recover from (duplicate/unknown ids, orphan
// spaces, cyclic containment) and the softer issues worth surfacing as
// warnings (missing name or area target). Extraction warnings are merged
// in as warnings, except CYCLIC_CONTAINMENT and EDGE_UNKNOWN_ENDPOINT,
// which become errors.
func Validate(ex *Extracted) *validation.Report {
	r := validation.NewReport()
	g := ex.Graph

	seenSpace := map[string]bool{}
	seenStorey := map[string]bool{}
	for _, s := range g.Storeys() {
		if seenStorey[s.ID] {
			r.AddError(validation.Result{
				Level: validation.LevelTopology, Code: "DUPLICATE_STOREY_ID",
				Message: fmt.Sprintf("duplicate storey id %q", s.ID), Refs: []string{s.ID},
			})
		}
		seenStorey[s.ID] = true
	}

	for _, s := range g.Spaces() {
		if seenSpace[s.ID] {
			r.AddError(validation.Result{
				Level: validation.LevelTopology, Code: "DUPLICATE_SPACE_ID",
				Message: fmt.Sprintf("duplicate space id %q", s.ID), Refs: []string{s.ID},
			})
		}
		seenSpace[s.ID] = true

		if _, ok := g.Storey(s.StoreyID); !ok {
			r.AddError(validation.Result{
				Level: validation.LevelTopology, Code: "SPACE_UNKNOWN_STOREY",
				Message: fmt.Sprintf("space %q references unknown storey %q", s.ID, s.StoreyID),
				Refs:    []string{s.ID, s.StoreyID},
			})
		}

		if s.Name == "" {
			r.AddWarning(validation.Result{
				Level: validation.LevelTopology, Code: "SPACE_MISSING_NAME",
				Message: fmt.Sprintf("space %q has no name", s.ID), Refs: []string{s.ID},
			})
		}
		if s.AreaTarget <= 0 {
			r.AddWarning(validation.Result{
				Level: validation.LevelTopology, Code: "SPACE_MISSING_AREA_TARGET",
				Message: fmt.Sprintf("space %q has no area target, default will be used", s.ID),
				Refs:    []string{s.ID},
			})
		}
	}

	for _, e := range g.Edges() {
		if !g.HasSpace(e.SpaceA) {
			r.AddError(validation.Result{
				Level: validation.LevelTopology, Code: "EDGE_UNKNOWN_ENDPOINT",
				Message: fmt.Sprintf("edge references unknown space %q", e.SpaceA), Refs: []string{e.SpaceA},
			})
		}
		if !g.HasSpace(e.SpaceB) {
			r.AddError(validation.Result{
				Level: validation.LevelTopology, Code: "EDGE_UNKNOWN_ENDPOINT",
				Message: fmt.Sprintf("edge references unknown space %q", e.SpaceB), Refs: []string{e.SpaceB},
			})
		}
	}

	if len(g.Spaces()) == 0 {
		r.AddWarning(validation.Result{
			Level: validation.LevelTopology, Code: "NO_SPACES",
			Message: "topology contains no spaces",
		})
	}

	for _, w := range ex.Warnings {
		if w.Code == "CYCLIC_CONTAINMENT" || w.Code == "EDGE_UNKNOWN_ENDPOINT" {
			r.AddError(validation.Result{
				Level: validation.LevelTopology, Code: w.Code,
				Message: w.Message, Refs: refsOf(w), SpecPath: w.Predicate,
			})
			continue
		}
		r.AddWarning(validation.Result{
			Level: validation.LevelTopology, Code: w.Code,
			Message: w.Message, Refs: refsOf(w), SpecPath: w.Predicate,
		})
	}

	return r
}

func refsOf(w Warning) []string {
	if w.EntityID == "" {
		return nil
	}
	return []string{w.EntityID}
}
