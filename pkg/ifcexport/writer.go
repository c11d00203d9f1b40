package ifcexport

import (
	"fmt"
	"io"
	"strings"
)

// Kind is the IFC entity class an Entity instance stands in for.
type Kind string

const (
	KindProject  Kind = "IfcProject"
	KindSite     Kind = "IfcSite"
	KindBuilding Kind = "IfcBuilding"
	KindStorey   Kind = "IfcBuildingStorey"
	KindSpace    Kind = "IfcSpace"
	KindSlab     Kind = "IfcSlab"
	KindWall     Kind = "IfcWall"
	KindRoof     Kind = "IfcRoof"
	KindDoor     Kind = "IfcDoor"
)

// Entity is one spatial or physical element in the model, identified by an
// IFC-compressed GUID and optionally contained within another entity
// (IfcRelContainedInSpatialStructure / IfcRelAggregates in a real model).
type Entity struct {
	GUID          string
	Kind          Kind
	Name          string
	ContainerGUID string
	Attrs         map[string]string
}

// Model is the in-memory spatial hierarchy and entity list the export
// adapter builds up before writing. It stands in for a real
// ifcopenshell-equivalent file object.
type Model struct {
	Project  Entity
	Site     Entity
	Building Entity
	Storeys  []Entity
	Entities []Entity
}

// NewModel creates the minimal IfcProject -> IfcSite -> IfcBuilding spatial
// root, each assigned a fresh GUID.
func NewModel(projectName string) *Model {
	return &Model{
		Project:  Entity{GUID: NewGUID(), Kind: KindProject, Name: projectName},
		Site:     Entity{GUID: NewGUID(), Kind: KindSite, Name: "Site"},
		Building: Entity{GUID: NewGUID(), Kind: KindBuilding, Name: "Building"},
	}
}

// AddStorey registers a building storey and returns its GUID, to be used
// as the ContainerGUID for every entity placed on that storey.
func (m *Model) AddStorey(name string, elevation float64) string {
	e := Entity{
		GUID: NewGUID(), Kind: KindStorey, Name: name,
		ContainerGUID: m.Building.GUID,
		Attrs:         map[string]string{"Elevation": formatFloat(elevation)},
	}
	m.Storeys = append(m.Storeys, e)
	return e.GUID
}

// AddEntity appends a physical or spatial element contained within
// containerGUID (normally a storey) and returns its freshly assigned GUID.
func (m *Model) AddEntity(kind Kind, name, containerGUID string, attrs map[string]string) string {
	e := Entity{GUID: NewGUID(), Kind: kind, Name: name, ContainerGUID: containerGUID, Attrs: attrs}
	m.Entities = append(m.Entities, e)
	return e.GUID
}

// Writer serializes a Model. A real implementation would emit the IFC4
// STEP physical file format; this stand-in emits a readable, line-oriented
// approximation of it, sufficient to exercise the export adapter end to
// end without vendoring an unretrieved IFC/STEP toolkit.
type Writer interface {
	Write(w io.Writer, m *Model) error
}

// TextWriter writes a STEP-physical-file-shaped serialization: a HEADER
// section followed by one pseudo-instance line per entity, each addressed
// by its IFC GUID rather than a STEP line number.
type TextWriter struct{}

func (TextWriter) Write(w io.Writer, m *Model) error {
	var b strings.Builder
	b.WriteString("ISO-10303-21;\nHEADER;\n")
	fmt.Fprintf(&b, "FILE_DESCRIPTION(('%s'),'2;1');\n", m.Project.Name)
	b.WriteString("ENDSEC;\nDATA;\n")

	writeLine(&b, m.Project, "")
	writeLine(&b, m.Site, m.Project.GUID)
	writeLine(&b, m.Building, m.Site.GUID)
	for _, s := range m.Storeys {
		writeLine(&b, s, s.ContainerGUID)
	}
	for _, e := range m.Entities {
		writeLine(&b, e, e.ContainerGUID)
	}

	b.WriteString("ENDSEC;\nEND-ISO-10303-21;\n")
	_, err := w.Write([]byte(b.String()))
	return err
}

func writeLine(b *strings.Builder, e Entity, containerGUID string) {
	fmt.Fprintf(b, "#%s=%s('%s','%s'", e.GUID, e.Kind, e.GUID, e.Name)
	if containerGUID != "" {
		fmt.Fprintf(b, ",#%s", containerGUID)
	}
	for _, k := range sortedKeys(e.Attrs) {
		fmt.Fprintf(b, ",%s=%s", k, e.Attrs[k])
	}
	b.WriteString(");\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}
