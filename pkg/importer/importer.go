// Package importer runs the full 3MF import pipeline: archive entry
// discovery, per-document parsing, cross-document object merging,
// component resolution and per-vertex color assignment. The output is a
// flat list of renderer-ready mesh instances; turning those into scene
// objects is the caller's job.
package importer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/meshkit/threemf/pkg/model"
	"github.com/meshkit/threemf/pkg/paint"
	"github.com/meshkit/threemf/pkg/threemf"
)

// Archive-level errors: these abort the whole import with no partial
// output. Everything below archive level degrades to warnings.
var (
	ErrNoModelFiles = errors.New("no model documents found in archive")
	ErrNoObjects    = errors.New("no objects found in archive")
)

// PaletteSource selects where paint indices get their colors from.
type PaletteSource int

const (
	// PaletteAuto reads filament colors from slicer project metadata
	// and falls back to a generated palette.
	PaletteAuto PaletteSource = iota
	// PaletteGenerated always uses the generated palette.
	PaletteGenerated
)

// GeneratedPaletteSize is the size of the fallback generated palette.
// It matches the largest extruder index the paint decoder can produce
// from observed codes, with headroom.
const GeneratedPaletteSize = 16

// Options control one import session.
type Options struct {
	PaletteSource PaletteSource
	Policy        paint.Policy
	// Logger receives a record of every entity skipped or truncated
	// during the import. Nil means no logging; the same information is
	// always returned in Result.Warnings.
	Logger *zap.Logger
}

// Warning records one recoverable event: a skipped document, a dropped
// entity, an unresolvable reference or a truncated component branch.
type Warning struct {
	Doc      string
	ObjectID int
	Msg      string
}

func (w Warning) String() string {
	if w.Doc == "" {
		return w.Msg
	}
	if w.ObjectID == 0 {
		return fmt.Sprintf("%s: %s", w.Doc, w.Msg)
	}
	return fmt.Sprintf("%s: object %d: %s", w.Doc, w.ObjectID, w.Msg)
}

// Mesh is a flattened, unit-scaled mesh with one color per vertex.
type Mesh struct {
	Name      string
	Vertices  [][3]float64
	Triangles [][3]int
	Colors    []paint.Color
}

// Instance is one resolved placement of a mesh. Transform is the
// accumulated world transform with its translation already converted to
// output units.
type Instance struct {
	Name      string
	SourceDoc string
	ObjectID  int
	Mesh      *Mesh
	Transform mgl64.Mat4
}

// Result is the complete output of one import session.
type Result struct {
	Instances []Instance
	Palette   []paint.Color
	UnitScale float64
	Warnings  []Warning
}

// objectKey addresses an object across all documents of one archive.
// Using the normalized document path disambiguates identically numbered
// objects defined in different files.
type objectKey struct {
	Doc string
	ID  int
}

// session owns all state of one import; nothing survives the call.
type session struct {
	objects   map[objectKey]*model.ObjectEntry
	order     []objectKey // insertion order, for deterministic fallback scans
	items     []model.BuildItem
	unitScale float64
	palette   []paint.Color
	policy    paint.Policy
	meshCache map[objectKey]*Mesh
	warnings  []Warning
	log       *zap.Logger
}

// Import opens a 3MF archive and imports it. The archive handle is
// released on all paths.
func Import(path string, opts Options) (*Result, error) {
	archive, err := threemf.Open(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	return ImportArchive(archive, opts)
}

// ImportArchive imports an already opened archive.
func ImportArchive(archive *threemf.Archive, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	files := archive.ModelFiles()
	if len(files) == 0 {
		return nil, ErrNoModelFiles
	}

	s := &session{
		objects:   make(map[objectKey]*model.ObjectEntry),
		unitScale: model.DefaultUnitScale,
		policy:    opts.Policy,
		meshCache: make(map[objectKey]*Mesh),
		log:       log,
	}

	unitSet := false
	for _, file := range files {
		data, err := archive.Read(file)
		if err != nil {
			s.warn(Warning{Doc: file, Msg: fmt.Sprintf("unreadable entry: %v", err)})
			continue
		}

		doc, err := model.Parse(data, file)
		if err != nil {
			// One malformed document does not abort the import.
			s.warn(Warning{Doc: file, Msg: fmt.Sprintf("parse failed: %v", err)})
			continue
		}

		norm := threemf.NormalizePath(file)

		if doc.HasUnitScale && !unitSet {
			s.unitScale = doc.UnitScale
			unitSet = true
		}

		for _, msg := range doc.Skipped {
			s.warn(Warning{Doc: norm, Msg: msg})
		}

		ids := make([]int, 0, len(doc.Objects))
		for id := range doc.Objects {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		for _, id := range ids {
			key := objectKey{Doc: norm, ID: id}
			if _, exists := s.objects[key]; !exists {
				s.order = append(s.order, key)
			}
			s.objects[key] = doc.Objects[id]
		}

		for _, item := range doc.BuildItems {
			item.SourceDoc = norm
			s.items = append(s.items, item)
		}
	}

	if len(s.objects) == 0 {
		return nil, ErrNoObjects
	}

	s.palette = resolvePalette(archive, opts.PaletteSource)

	instances := s.buildInstances()

	return &Result{
		Instances: instances,
		Palette:   s.palette,
		UnitScale: s.unitScale,
		Warnings:  s.warnings,
	}, nil
}

// resolvePalette picks the color palette for this session.
func resolvePalette(archive *threemf.Archive, source PaletteSource) []paint.Color {
	if source == PaletteAuto {
		if palette := archive.FilamentPalette(); len(palette) > 0 {
			return palette
		}
	}
	return paint.GeneratePalette(GeneratedPaletteSize)
}

// buildInstances flattens the merged object graph. Build items drive
// placement; an archive without any becomes one instance per object.
func (s *session) buildInstances() []Instance {
	var instances []Instance

	if len(s.items) == 0 {
		for _, key := range s.order {
			for _, r := range s.resolve(key.Doc, key.ID, mgl64.Ident4(), 0) {
				instances = append(instances, s.instantiate(r))
			}
		}
		return instances
	}

	for _, item := range s.items {
		base := mgl64.Ident4()
		if item.HasTransform {
			base = item.Transform
		}

		resolved := s.resolve(item.SourceDoc, item.ObjectID, base, 0)
		if len(resolved) == 0 {
			s.warn(Warning{Doc: item.SourceDoc, ObjectID: item.ObjectID,
				Msg: "build item references object with no mesh"})
			continue
		}

		for _, r := range resolved {
			instances = append(instances, s.instantiate(r))
		}
	}

	return instances
}

// instantiate turns one resolved (mesh, transform) pair into an output
// instance, constructing or reusing the cached mesh artifact.
func (s *session) instantiate(r resolvedMesh) Instance {
	mesh := s.meshFor(r.key, r.mesh)

	// Rotation and scale stay in the mesh's frame; the translation
	// moves to output units along with the vertices.
	world := r.transform
	world[12] *= s.unitScale
	world[13] *= s.unitScale
	world[14] *= s.unitScale

	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("Object_%d", r.key.ID)
	}

	return Instance{
		Name:      name,
		SourceDoc: r.key.Doc,
		ObjectID:  r.key.ID,
		Mesh:      mesh,
		Transform: world,
	}
}

// meshFor builds the unit-scaled, vertex-colored mesh for an object,
// cached by object key so components referencing the same mesh share
// one artifact.
func (s *session) meshFor(key objectKey, src *model.MeshObject) *Mesh {
	if cached, ok := s.meshCache[key]; ok {
		return cached
	}

	vertices := make([][3]float64, len(src.Vertices))
	for i, v := range src.Vertices {
		vertices[i] = [3]float64{v[0] * s.unitScale, v[1] * s.unitScale, v[2] * s.unitScale}
	}

	triangles := make([][3]int, len(src.Triangles))
	copy(triangles, src.Triangles)

	indices := paint.DecodeCodes(src.TrianglePaint)
	colors := paint.AggregateVertexColors(len(vertices), triangles, indices, s.palette, s.policy)

	mesh := &Mesh{
		Name:      src.Name,
		Vertices:  vertices,
		Triangles: triangles,
		Colors:    colors,
	}
	s.meshCache[key] = mesh
	return mesh
}

func (s *session) warn(w Warning) {
	s.warnings = append(s.warnings, w)
	s.log.Warn(w.Msg, zap.String("doc", w.Doc), zap.Int("object", w.ObjectID))
}
