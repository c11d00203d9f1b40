// Package topology builds and validates the internal topology graph that
// the RDF extractor produces and the layout solvers consume.
package topology

// Storey is a horizontal level of a building.
type Storey struct {
	ID        string
	Name      string
	Elevation float64
	Height    float64
	Index     int
}

// SpaceCategory loosely classifies a space for solver heuristics. Unknown
// categories default to Generic.
type SpaceCategory string

const (
	CategoryGeneric    SpaceCategory = "GENERIC"
	CategoryCorridor   SpaceCategory = "CORRIDOR"
	CategoryEntrance   SpaceCategory = "ENTRANCE"
	CategoryStair      SpaceCategory = "STAIR"
	CategoryElevator   SpaceCategory = "ELEVATOR"
)

// CategoryFromString maps a free-form category string onto a known
// SpaceCategory, defaulting to Generic.
func CategoryFromString(s string) SpaceCategory {
	switch SpaceCategory(s) {
	case CategoryCorridor, CategoryEntrance, CategoryStair, CategoryElevator:
		return SpaceCategory(s)
	default:
		return CategoryGeneric
	}
}

// IsCirculation reports whether the category is a circulation type the
// heuristic solver may prefer as a BFS root.
func (c SpaceCategory) IsCirculation() bool {
	return c == CategoryCorridor || c == CategoryEntrance || c == CategoryStair || c == CategoryElevator
}

// Space is a room-like region to be placed on a storey.
type Space struct {
	ID             string
	Name           string
	Category       SpaceCategory
	StoreyID       string
	AreaTarget     float64
	AreaMin        float64
	Height         float64
	AspectRatioMin float64
	AspectRatioMax float64
}

// EffectiveAreaTarget returns AreaTarget, falling back to def when unset.
func (s Space) EffectiveAreaTarget(def float64) float64 {
	if s.AreaTarget > 0 {
		return s.AreaTarget
	}
	return def
}

// EffectiveAreaMin returns AreaMin, falling back to def when unset.
func (s Space) EffectiveAreaMin(def float64) float64 {
	if s.AreaMin > 0 {
		return s.AreaMin
	}
	return def
}

// EdgeKind distinguishes a bare adjacency from a door-like connection.
// A connection implies adjacency.
type EdgeKind string

const (
	EdgeAdjacency  EdgeKind = "ADJACENCY"
	EdgeConnection EdgeKind = "CONNECTION"
)

// Edge is an undirected relation between two spaces.
type Edge struct {
	SpaceA, SpaceB string
	Kind           EdgeKind
	DoorWidth      float64
	DoorHeight     float64
}

// Pair returns the endpoints in a stable (min, max) order, useful as a
// dedup key.
func (e Edge) Pair() (string, string) {
	if e.SpaceA <= e.SpaceB {
		return e.SpaceA, e.SpaceB
	}
	return e.SpaceB, e.SpaceA
}

// Equipment is recognized but never laid out; carried for completeness.
type Equipment struct {
	ID                  string
	LocatedInSpaceID    string
	DeviceType          string
	MaintenanceInterval string
}

// Point is a telemetry point optionally attached to an Equipment instance.
type Point struct {
	ID          string
	EquipmentID string
	PointType   string
	Unit        string
}

// Warning is a structured, deduplicated extraction-time diagnostic.
type Warning struct {
	Code      string
	EntityID  string
	Predicate string
	Message   string
}

func warningKey(w Warning) string {
	return w.Code + "|" + w.EntityID + "|" + w.Predicate
}
