package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/meshkit/threemf/pkg/importer"
)

// writeOBJ exports flattened instances as a Wavefront OBJ file using
// the common vertex-color extension: each vertex line carries rgb after
// the position. OBJ has no per-object transform, so world transforms
// are baked into the positions when applyTransforms is set.
func writeOBJ(path string, instances []importer.Instance, applyTransforms bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# exported by 3mftool")

	offset := 1 // OBJ indices are 1-based
	for i, inst := range instances {
		fmt.Fprintf(w, "o %s_%d\n", inst.Name, i)

		for vi, v := range inst.Mesh.Vertices {
			p := mgl64.Vec3{v[0], v[1], v[2]}
			if applyTransforms {
				p = mgl64.TransformCoordinate(p, inst.Transform)
			}
			c := inst.Mesh.Colors[vi]
			fmt.Fprintf(w, "v %g %g %g %g %g %g\n", p[0], p[1], p[2], c[0], c[1], c[2])
		}

		for _, tri := range inst.Mesh.Triangles {
			fmt.Fprintf(w, "f %d %d %d\n", offset+tri[0], offset+tri[1], offset+tri[2])
		}

		offset += len(inst.Mesh.Vertices)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
