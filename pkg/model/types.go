// Package model parses 3MF model documents: the XML files inside a 3MF
// archive that describe mesh objects, component references and build
// items. Parsing is deliberately namespace-agnostic because slicers
// disagree on prefixes for extension attributes.
package model

import "github.com/go-gl/mathgl/mgl64"

// MeshObject holds raw mesh geometry from one object element.
// TrianglePaint runs parallel to Triangles; an empty string means the
// triangle carries no paint_color attribute.
type MeshObject struct {
	ID            int
	Name          string
	Vertices      [][3]float64
	Triangles     [][3]int
	TrianglePaint []string
}

// ComponentRef is a reference from a container object to another
// object, possibly defined in a different document of the archive.
type ComponentRef struct {
	Path         string // referenced document path, empty = same document
	ObjectID     int
	Transform    mgl64.Mat4
	HasTransform bool
}

// ObjectEntry is one object resource: direct geometry, a list of
// component references, or both. Entries with neither are never
// constructed; the parser drops them.
type ObjectEntry struct {
	ID         int
	Name       string
	Mesh       *MeshObject
	Components []ComponentRef
}

// BuildItem places an object into the scene. SourceDoc is assigned
// after parsing and holds the normalized path of the document the item
// came from.
type BuildItem struct {
	ObjectID     int
	Transform    mgl64.Mat4
	HasTransform bool
	SourceDoc    string
}

// Document is the result of parsing one model document.
type Document struct {
	Objects    map[int]*ObjectEntry
	BuildItems []BuildItem

	// UnitScale converts the document's length unit to meters; valid
	// only when HasUnitScale is set. Callers default to millimeters.
	UnitScale    float64
	HasUnitScale bool

	// Skipped lists entities dropped during parsing (bad ids, empty
	// meshes). These are advisory, not errors.
	Skipped []string
}
