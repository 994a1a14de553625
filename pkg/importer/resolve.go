package importer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/meshkit/threemf/pkg/model"
	"github.com/meshkit/threemf/pkg/threemf"
)

// maxResolveDepth bounds component recursion. Component graphs may
// legitimately nest, but cyclic references would otherwise recurse
// forever; branches deeper than this are truncated and reported as a
// warning rather than an error.
const maxResolveDepth = 10

// resolvedMesh is one concrete (mesh, world transform) pair produced by
// flattening a component tree. key identifies the entry that owns the
// mesh, which is also the mesh cache key.
type resolvedMesh struct {
	key       objectKey
	mesh      *model.MeshObject
	transform mgl64.Mat4
}

// resolve flattens the object at (doc, id) into concrete meshes,
// following component references depth-first and accumulating
// transforms. Unresolvable references yield an empty result plus a
// warning; they never abort the import.
func (s *session) resolve(doc string, id int, inherited mgl64.Mat4, depth int) []resolvedMesh {
	if depth > maxResolveDepth {
		s.warn(Warning{Doc: doc, ObjectID: id,
			Msg: "component recursion truncated (reference cycle or nesting beyond limit)"})
		return nil
	}

	key := objectKey{Doc: doc, ID: id}
	entry, ok := s.objects[key]
	if !ok {
		// Some files reference objects without a path qualifier even
		// across documents; fall back to an id-only scan in insertion
		// order so the match is deterministic.
		for _, k := range s.order {
			if k.ID == id {
				key = k
				entry = s.objects[k]
				break
			}
		}
	}
	if entry == nil {
		s.warn(Warning{Doc: doc, ObjectID: id, Msg: "unresolvable object reference"})
		return nil
	}

	var results []resolvedMesh

	if entry.Mesh != nil {
		results = append(results, resolvedMesh{key: key, mesh: entry.Mesh, transform: inherited})
	}

	for _, comp := range entry.Components {
		compDoc := key.Doc
		if comp.Path != "" {
			compDoc = threemf.NormalizePath(comp.Path)
		}

		combined := inherited
		if comp.HasTransform {
			combined = inherited.Mul4(comp.Transform)
		}

		results = append(results, s.resolve(compDoc, comp.ObjectID, combined, depth+1)...)
	}

	return results
}
