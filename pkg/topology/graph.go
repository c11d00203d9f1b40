package topology

import (
	"sort"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
)

// Graph is the topology of one building: storeys, spaces, and the
// adjacency/connection edges between spaces. Vertex and edge bookkeeping
// is delegated to lvlath's core.Graph; edge kind (adjacency vs connection)
// has no slot on lvlath's Edge type, so it is tracked in a side map keyed
// by the endpoint pair.
type Graph struct {
	storeys map[string]*Storey
	spaces  map[string]*Space

	g      *core.Graph
	edges  map[[2]string]Edge
}

// New creates an empty topology graph.
func New() *Graph {
	return &Graph{
		storeys: map[string]*Storey{},
		spaces:  map[string]*Space{},
		g:       core.NewGraph(),
		edges:   map[[2]string]Edge{},
	}
}

// AddStorey registers a storey. Re-adding the same id overwrites it.
func (t *Graph) AddStorey(s Storey) {
	cp := s
	t.storeys[s.ID] = &cp
}

// AddSpace registers a space and its vertex in the underlying graph.
func (t *Graph) AddSpace(s Space) error {
	if err := t.g.AddVertex(s.ID); err != nil {
		return err
	}
	cp := s
	t.spaces[s.ID] = &cp
	return nil
}

// AddEdge adds an adjacency or connection edge. Both endpoints must already
// be known spaces, or an error is returned; duplicate (unordered) pairs are
// coalesced, with a connection upgrading a previously bare adjacency.
func (t *Graph) AddEdge(e Edge) error {
	if !t.g.HasVertex(e.SpaceA) {
		return core.ErrVertexNotFound
	}
	if !t.g.HasVertex(e.SpaceB) {
		return core.ErrVertexNotFound
	}
	a, b := e.Pair()
	key := [2]string{a, b}
	if existing, ok := t.edges[key]; ok {
		if existing.Kind == EdgeConnection || e.Kind == EdgeAdjacency {
			return nil
		}
		t.edges[key] = e
		return nil
	}
	if !t.g.HasEdge(a, b) {
		if _, err := t.g.AddEdge(a, b, 0); err != nil {
			return err
		}
	}
	t.edges[key] = e
	return nil
}

// Storeys returns every storey, sorted by (Elevation, Index).
func (t *Graph) Storeys() []Storey {
	out := make([]Storey, 0, len(t.storeys))
	for _, s := range t.storeys {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Elevation != out[j].Elevation {
			return out[i].Elevation < out[j].Elevation
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Storey looks up a storey by id.
func (t *Graph) Storey(id string) (Storey, bool) {
	s, ok := t.storeys[id]
	if !ok {
		return Storey{}, false
	}
	return *s, true
}

// Spaces returns every space, sorted by id for deterministic iteration.
func (t *Graph) Spaces() []Space {
	out := make([]Space, 0, len(t.spaces))
	for _, s := range t.spaces {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SpacesOnStorey returns the spaces assigned to storeyID, sorted by id.
func (t *Graph) SpacesOnStorey(storeyID string) []Space {
	var out []Space
	for _, s := range t.spaces {
		if s.StoreyID == storeyID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Space looks up a space by id.
func (t *Graph) Space(id string) (Space, bool) {
	s, ok := t.spaces[id]
	if !ok {
		return Space{}, false
	}
	return *s, true
}

// HasSpace reports whether id is a known space.
func (t *Graph) HasSpace(id string) bool {
	_, ok := t.spaces[id]
	return ok
}

// Edges returns every edge (adjacency and connection), sorted by endpoint
// pair for deterministic iteration.
func (t *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(t.edges))
	for _, e := range t.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, bi := out[i].Pair()
		aj, bj := out[j].Pair()
		if ai != aj {
			return ai < aj
		}
		return bi < bj
	})
	return out
}

// AdjacentPairs returns every edge pair, regardless of kind (adjacency
// includes connection, since a connection implies adjacency).
func (t *Graph) AdjacentPairs() [][2]string {
	var out [][2]string
	for k := range t.edges {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// ConnectedPairs returns only the edges whose kind is EdgeConnection.
func (t *Graph) ConnectedPairs() [][2]string {
	var out [][2]string
	for k, e := range t.edges {
		if e.Kind == EdgeConnection {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Edge looks up the edge between a and b, regardless of argument order.
func (t *Graph) Edge(a, b string) (Edge, bool) {
	if a > b {
		a, b = b, a
	}
	e, ok := t.edges[[2]string{a, b}]
	return e, ok
}

// Neighbors returns the ids of spaces adjacent to (or connected to) id.
func (t *Graph) Neighbors(id string) ([]string, error) {
	return t.g.NeighborIDs(id)
}

// BFSOrder returns the visit order of a breadth-first traversal from
// startID, restricted to the adjacency/connection graph.
func (t *Graph) BFSOrder(startID string) ([]string, error) {
	res, err := bfs.BFS(t.g, startID)
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

// Components returns the connected components of the adjacency/connection
// graph restricted to the spaces of storeyID, each as a list of space ids
// sorted by id, and the components themselves sorted by descending size
// then by their first member's id for determinism. lvlath has no
// general-purpose connected-components helper outside its grid-specific
// package, so this repeatedly calls bfs.BFS from each unvisited vertex.
func (t *Graph) Components(storeyID string) [][]string {
	onStorey := map[string]bool{}
	for _, s := range t.SpacesOnStorey(storeyID) {
		onStorey[s.ID] = true
	}

	visited := map[string]bool{}
	var comps [][]string
	for _, s := range t.SpacesOnStorey(storeyID) {
		if visited[s.ID] {
			continue
		}
		res, err := bfs.BFS(t.g, s.ID, bfs.WithFilterNeighbor(func(_, neighbor string) bool {
			return onStorey[neighbor]
		}))
		if err != nil {
			visited[s.ID] = true
			comps = append(comps, []string{s.ID})
			continue
		}
		var comp []string
		for _, id := range res.Order {
			if onStorey[id] && !visited[id] {
				visited[id] = true
				comp = append(comp, id)
			}
		}
		sort.Strings(comp)
		comps = append(comps, comp)
	}

	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
	return comps
}
