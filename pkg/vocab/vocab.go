// Package vocab defines the recognized RDF class and property URIs across
// the four vocabularies a topology may be expressed in: BOT, Brick, SBCO,
// and the project's own TOPO namespace.
package vocab

// Namespace prefixes for the four recognized vocabularies.
const (
	NsTOPO  = "https://w3id.org/topo2ifc#"
	NsBOT   = "https://w3id.org/bot#"
	NsBrick = "https://brickschema.org/schema/Brick#"
	NsSBCO  = "https://w3id.org/sbco#"
	NsRDF   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NsRDFS  = "http://www.w3.org/2000/01/rdf-schema#"
)

// RDFType is the rdf:type predicate.
const RDFType = NsRDF + "type"

// Registry is a read-only table of recognized URIs grouped by role.
// It is the single place new vocabularies are added; no namespace string
// should appear outside this package.
type Registry struct {
	SpaceClasses       []string
	StoreyClasses      []string
	EquipmentClasses   []string
	PointClasses       []string
	CirculationClasses []string

	AdjacentTo  []string
	ConnectedTo []string

	// Containment properties resolve space<->storey and equipment/point
	// location, in either predicate direction.
	HasSpace       []string
	IsPartOfStorey []string
	LocatedIn      []string
	HasPoint       []string

	NameProps            []string
	CategoryProps        []string
	AreaTargetProps      []string
	AreaMinProps         []string
	HeightProps          []string
	AspectRatioMinProps  []string
	AspectRatioMaxProps  []string
	ElevationProps       []string
	LevelNumberProps     []string
	StoreyHeightProps    []string
	DeviceTypeProps      []string
	MaintenanceIntervalProps []string
	PointTypeProps       []string
	UnitProps            []string
	HasQuantityProps     []string
}

// Default returns the registry describing BOT, Brick, SBCO, and TOPO as
// spec.md §4.A enumerates them.
func Default() Registry {
	return Registry{
		SpaceClasses: []string{
			NsTOPO + "Space", NsBOT + "Space", NsBrick + "Space", NsBrick + "Room", NsBrick + "Area", NsSBCO + "Space",
		},
		StoreyClasses: []string{
			NsTOPO + "Storey", NsBOT + "Storey", NsBrick + "Floor", NsSBCO + "Storey",
		},
		EquipmentClasses: []string{
			NsTOPO + "Equipment", NsBrick + "Equipment", NsSBCO + "Equipment",
		},
		PointClasses: []string{
			NsTOPO + "Point", NsBrick + "Point", NsSBCO + "Point",
		},
		CirculationClasses: []string{
			NsTOPO + "Corridor", NsTOPO + "Entrance", NsTOPO + "Stair", NsTOPO + "Elevator",
			NsBrick + "Corridor",
		},

		AdjacentTo:  []string{NsTOPO + "adjacentTo", NsBOT + "adjacentElement", NsBrick + "adjacentTo"},
		ConnectedTo: []string{NsTOPO + "connectedTo", NsBOT + "interfaceOf", NsBrick + "connectedTo"},

		HasSpace:       []string{NsTOPO + "hasSpace", NsBOT + "hasSpace", NsSBCO + "hasSpace"},
		IsPartOfStorey: []string{NsTOPO + "isPartOfStorey", NsBOT + "isPartOf", NsSBCO + "isPartOfStorey"},
		LocatedIn:      []string{NsTOPO + "locatedIn", NsBrick + "hasLocation", NsSBCO + "locatedIn"},
		HasPoint:       []string{NsTOPO + "hasPoint", NsBrick + "hasPoint", NsSBCO + "hasPoint"},

		NameProps:                []string{NsTOPO + "name", NsRDFS + "label", NsSBCO + "name"},
		CategoryProps:            []string{NsTOPO + "category", NsSBCO + "category"},
		AreaTargetProps:          []string{NsTOPO + "areaTarget", NsSBCO + "areaTarget"},
		AreaMinProps:             []string{NsTOPO + "areaMin", NsSBCO + "areaMin"},
		HeightProps:              []string{NsTOPO + "height", NsSBCO + "height"},
		AspectRatioMinProps:      []string{NsTOPO + "aspectRatioMin"},
		AspectRatioMaxProps:      []string{NsTOPO + "aspectRatioMax"},
		ElevationProps:           []string{NsTOPO + "elevation", NsSBCO + "elevation"},
		LevelNumberProps:         []string{NsTOPO + "levelNumber", NsSBCO + "levelNumber"},
		StoreyHeightProps:        []string{NsTOPO + "storeyHeight", NsSBCO + "storeyHeight"},
		DeviceTypeProps:          []string{NsTOPO + "deviceType", NsBrick + "hasTag", NsSBCO + "deviceType"},
		MaintenanceIntervalProps: []string{NsTOPO + "maintenanceInterval", NsSBCO + "maintenanceInterval"},
		PointTypeProps:           []string{NsTOPO + "pointType", NsBrick + "hasTag", NsSBCO + "pointType"},
		UnitProps:                []string{NsTOPO + "unit", NsSBCO + "unit"},
		HasQuantityProps:         []string{NsTOPO + "hasQuantity", NsSBCO + "hasQuantity"},
	}
}

// Contains reports whether uri appears in set.
func Contains(set []string, uri string) bool {
	for _, s := range set {
		if s == uri {
			return true
		}
	}
	return false
}

// IsSBCO reports whether uri belongs to the SBCO namespace specifically;
// an SBCO space missing a name produces a stricter extraction warning than
// the other vocabularies (see topology.Extract).
func IsSBCO(uri string) bool {
	return len(uri) >= len(NsSBCO) && uri[:len(NsSBCO)] == NsSBCO
}
