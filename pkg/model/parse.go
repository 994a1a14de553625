package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedDocument wraps XML syntax failures. One malformed
// document does not abort an import; the caller skips it and continues
// with the remaining documents.
var ErrMalformedDocument = errors.New("malformed model document")

// Parse parses one model document. sourcePath is used in skip notices
// only; path bookkeeping across documents belongs to the caller.
//
// Objects with unusable ids or with neither mesh nor components are
// dropped and recorded in Document.Skipped. Non-numeric vertex
// coordinates fail the whole document.
func Parse(data []byte, sourcePath string) (*Document, error) {
	root, err := decodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, sourcePath, err)
	}

	doc := &Document{
		Objects: make(map[int]*ObjectEntry),
	}

	if unit, ok := root.attr("unit"); ok {
		if scale, ok := UnitScaleFor(unit); ok {
			doc.UnitScale = scale
			doc.HasUnitScale = true
		}
	}

	if resources := root.child("resources"); resources != nil {
		for _, objElem := range resources.childrenNamed("object") {
			entry, err := parseObject(objElem)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, sourcePath, err)
			}
			if entry == nil {
				id := objElem.attrDefault("id", "?")
				doc.Skipped = append(doc.Skipped, fmt.Sprintf("object %s dropped (no usable id, mesh or components)", id))
				continue
			}
			doc.Objects[entry.ID] = entry
		}
	}

	if build := root.child("build"); build != nil {
		for _, itemElem := range build.childrenNamed("item") {
			item, ok := parseBuildItem(itemElem)
			if !ok {
				doc.Skipped = append(doc.Skipped, "build item dropped (missing or non-integer objectid)")
				continue
			}
			doc.BuildItems = append(doc.BuildItems, item)
		}
	}

	return doc, nil
}

// parseObject parses one object element. A nil entry with nil error
// means the object was dropped.
func parseObject(e *element) (*ObjectEntry, error) {
	idStr, ok := e.attr("id")
	if !ok {
		return nil, nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, nil
	}

	entry := &ObjectEntry{
		ID:   id,
		Name: e.attrDefault("name", ""),
	}

	if meshElem := e.child("mesh"); meshElem != nil {
		mesh, err := parseMesh(id, entry.Name, meshElem)
		if err != nil {
			return nil, err
		}
		entry.Mesh = mesh
	}

	if compsElem := e.child("components"); compsElem != nil {
		for _, compElem := range compsElem.childrenNamed("component") {
			if ref, ok := parseComponent(compElem); ok {
				entry.Components = append(entry.Components, ref)
			}
		}
	}

	if entry.Mesh == nil && len(entry.Components) == 0 {
		return nil, nil
	}
	return entry, nil
}

// parseMesh parses vertex and triangle tables. A mesh missing either
// table, or with one of them empty, is treated as absent.
func parseMesh(id int, name string, e *element) (*MeshObject, error) {
	verticesElem := e.child("vertices")
	if verticesElem == nil {
		return nil, nil
	}

	var vertices [][3]float64
	for _, v := range verticesElem.childrenNamed("vertex") {
		var pos [3]float64
		for i, axis := range [3]string{"x", "y", "z"} {
			val, err := strconv.ParseFloat(v.attrDefault(axis, "0"), 64)
			if err != nil {
				return nil, fmt.Errorf("object %d: bad vertex %s: %v", id, axis, err)
			}
			pos[i] = val
		}
		vertices = append(vertices, pos)
	}
	if len(vertices) == 0 {
		return nil, nil
	}

	trianglesElem := e.child("triangles")
	if trianglesElem == nil {
		return nil, nil
	}

	var triangles [][3]int
	var paint []string
	for _, tri := range trianglesElem.childrenNamed("triangle") {
		var idx [3]int
		valid := true
		for i, attr := range [3]string{"v1", "v2", "v3"} {
			val, err := strconv.Atoi(tri.attrDefault(attr, "0"))
			if err != nil {
				valid = false
				break
			}
			idx[i] = val
		}
		if !valid {
			// Skip a triangle with non-integer indices; the rest of
			// the mesh is still usable.
			continue
		}
		triangles = append(triangles, idx)
		// Paint codes are preserved verbatim; decoding happens later.
		paint = append(paint, tri.attrDefault("paint_color", ""))
	}
	if len(triangles) == 0 {
		return nil, nil
	}

	return &MeshObject{
		ID:            id,
		Name:          name,
		Vertices:      vertices,
		Triangles:     triangles,
		TrianglePaint: paint,
	}, nil
}

// parseComponent parses one component reference. Missing or
// non-integer objectid drops the reference.
func parseComponent(e *element) (ComponentRef, bool) {
	idStr, ok := e.attr("objectid")
	if !ok {
		return ComponentRef{}, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return ComponentRef{}, false
	}

	ref := ComponentRef{
		ObjectID: id,
		Path:     e.attrDefault("path", ""),
	}
	if ts, ok := e.attr("transform"); ok {
		ref.Transform, ref.HasTransform = ParseTransform(ts)
	}
	return ref, true
}

// parseBuildItem parses one build item element.
func parseBuildItem(e *element) (BuildItem, bool) {
	idStr, ok := e.attr("objectid")
	if !ok {
		return BuildItem{}, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return BuildItem{}, false
	}

	item := BuildItem{ObjectID: id}
	if ts, ok := e.attr("transform"); ok {
		item.Transform, item.HasTransform = ParseTransform(ts)
	}
	return item, true
}
