package importer

import (
	"archive/zip"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.3mf")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

const paintedQuadDoc = `<?xml version="1.0"?>
<model unit="millimeter">
  <resources>
    <object id="1" name="quad">
      <mesh>
        <vertices>
          <vertex x="0" y="0" z="0"/>
          <vertex x="10" y="0" z="0"/>
          <vertex x="10" y="10" z="0"/>
          <vertex x="0" y="10" z="0"/>
        </vertices>
        <triangles>
          <triangle v1="0" v2="1" v3="2" paint_color="8"/>
          <triangle v1="0" v2="2" v3="3" paint_color="8"/>
        </triangles>
      </mesh>
    </object>
  </resources>
  <build/>
</model>`

func TestImport_SinglePaintedMesh(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model": paintedQuadDoc,
	})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)

	assert.Equal(t, 1e-3, result.UnitScale)
	assert.Len(t, result.Palette, GeneratedPaletteSize)
	require.Len(t, result.Instances, 1)

	inst := result.Instances[0]
	assert.Equal(t, "quad", inst.Name)
	require.Len(t, inst.Mesh.Vertices, 4)
	require.Len(t, inst.Mesh.Triangles, 2)

	// Vertices arrive in output units (millimeters scaled by 0.001).
	assert.InDelta(t, 0.01, inst.Mesh.Vertices[1][0], 1e-12)

	// All triangles painted "8" = palette index 1: every vertex gets
	// that color.
	want := result.Palette[1]
	require.Len(t, inst.Mesh.Colors, 4)
	for _, c := range inst.Mesh.Colors {
		assert.Equal(t, want, c)
	}
}

func TestImport_ExternalComponentWithRotation(t *testing.T) {
	root := `<model unit="millimeter">
  <resources>
    <object id="1">
      <components>
        <component objectid="10" path="/3D/Objects/part.model" transform="0 -1 0 1 0 0 0 0 1 0 0 0"/>
      </components>
    </object>
  </resources>
  <build>
    <item objectid="1"/>
  </build>
</model>`
	part := `<model>
  <resources>
    <object id="10" name="part">
      <mesh>
        <vertices>
          <vertex x="1" y="0" z="0"/>
          <vertex x="0" y="1" z="0"/>
          <vertex x="0" y="0" z="1"/>
        </vertices>
        <triangles>
          <triangle v1="0" v2="1" v3="2"/>
        </triangles>
      </mesh>
    </object>
  </resources>
</model>`

	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model":                 root,
		"3D/Objects/part.model":            part,
		"Metadata/project_settings.config": `{"filament_colour": ["#111111", "#222222"]}`,
	})

	result, err := Import(path, Options{})
	require.NoError(t, err)
	require.Len(t, result.Instances, 1)

	inst := result.Instances[0]
	assert.Equal(t, "part", inst.Name)
	assert.Equal(t, "3d/objects/part.model", inst.SourceDoc)
	assert.Equal(t, 10, inst.ObjectID)

	// The build item has no transform, so the world transform is
	// exactly the component's 90 degree rotation about Z.
	want := mgl64.HomogRotate3DZ(math.Pi / 2)
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], inst.Transform[i], 1e-12, "element %d", i)
	}

	// Auto palette picked up the project metadata.
	require.Len(t, result.Palette, 2)
}

func TestImport_SelfCycleTerminates(t *testing.T) {
	doc := `<model unit="millimeter">
  <resources>
    <object id="1" name="loop">
      <mesh>
        <vertices>
          <vertex x="0" y="0" z="0"/>
          <vertex x="1" y="0" z="0"/>
          <vertex x="0" y="1" z="0"/>
        </vertices>
        <triangles>
          <triangle v1="0" v2="1" v3="2"/>
        </triangles>
      </mesh>
      <components>
        <component objectid="1"/>
      </components>
    </object>
  </resources>
  <build>
    <item objectid="1"/>
  </build>
</model>`

	path := writeArchive(t, map[string]string{"3D/3dmodel.model": doc})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)

	// The branch truncates at the depth bound instead of hanging; the
	// mesh still comes out, and the truncation is reported.
	assert.NotEmpty(t, result.Instances)

	truncated := false
	for _, w := range result.Warnings {
		if w.ObjectID == 1 && w.Doc == "3d/3dmodel.model" {
			truncated = true
		}
	}
	assert.True(t, truncated, "expected a truncation warning, got %v", result.Warnings)
}

func TestImport_MeshCacheSharedAcrossInstances(t *testing.T) {
	doc := `<model unit="millimeter">
  <resources>
    <object id="1" name="shared">
      <mesh>
        <vertices>
          <vertex x="0" y="0" z="0"/>
          <vertex x="1" y="0" z="0"/>
          <vertex x="0" y="1" z="0"/>
        </vertices>
        <triangles>
          <triangle v1="0" v2="1" v3="2"/>
        </triangles>
      </mesh>
    </object>
  </resources>
  <build>
    <item objectid="1" transform="1 0 0 0 1 0 0 0 1 0 0 0"/>
    <item objectid="1" transform="1 0 0 0 1 0 0 0 1 100 0 0"/>
  </build>
</model>`

	path := writeArchive(t, map[string]string{"3D/3dmodel.model": doc})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)
	require.Len(t, result.Instances, 2)

	assert.Same(t, result.Instances[0].Mesh, result.Instances[1].Mesh,
		"both placements should share one constructed mesh")

	// Second item's translation is scaled to output units.
	assert.InDelta(t, 0.1, result.Instances[1].Transform[12], 1e-12)
}

func TestImport_NoBuildItemsImportsAllObjects(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model": paintedQuadDoc,
	})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)
	require.Len(t, result.Instances, 1)
	assert.Equal(t, mgl64.Ident4(), result.Instances[0].Transform)
}

func TestImport_UnresolvableBuildItemWarns(t *testing.T) {
	doc := `<model unit="millimeter">
  <resources>
    <object id="1">
      <mesh>
        <vertices>
          <vertex x="0" y="0" z="0"/>
          <vertex x="1" y="0" z="0"/>
          <vertex x="0" y="1" z="0"/>
        </vertices>
        <triangles>
          <triangle v1="0" v2="1" v3="2"/>
        </triangles>
      </mesh>
    </object>
  </resources>
  <build>
    <item objectid="99"/>
  </build>
</model>`

	path := writeArchive(t, map[string]string{"3D/3dmodel.model": doc})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)
	assert.Empty(t, result.Instances)
	assert.NotEmpty(t, result.Warnings)
}

func TestImport_MalformedDocumentSkipped(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model":          "<model><resources>",
		"3D/Objects/object_1.model": paintedQuadDoc,
	})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)
	require.Len(t, result.Instances, 1)

	found := false
	for _, w := range result.Warnings {
		if w.Doc == "3D/3dmodel.model" {
			found = true
		}
	}
	assert.True(t, found, "expected a parse warning for the root document")
}

func TestImport_NoModelFiles(t *testing.T) {
	path := writeArchive(t, map[string]string{"Metadata/info.txt": "x"})

	_, err := Import(path, Options{})
	assert.ErrorIs(t, err, ErrNoModelFiles)
}

func TestImport_NoObjects(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model": "<model><resources/><build/></model>",
	})

	_, err := Import(path, Options{})
	assert.ErrorIs(t, err, ErrNoObjects)
}

func TestImport_IDOnlyFallbackAcrossDocuments(t *testing.T) {
	// The root references object 10 without a path qualifier; it only
	// exists in the container document.
	root := `<model unit="millimeter">
  <resources>
    <object id="1">
      <components>
        <component objectid="10"/>
      </components>
    </object>
  </resources>
  <build>
    <item objectid="1"/>
  </build>
</model>`
	part := `<model>
  <resources>
    <object id="10" name="elsewhere">
      <mesh>
        <vertices>
          <vertex x="0" y="0" z="0"/>
          <vertex x="1" y="0" z="0"/>
          <vertex x="0" y="1" z="0"/>
        </vertices>
        <triangles>
          <triangle v1="0" v2="1" v3="2"/>
        </triangles>
      </mesh>
    </object>
  </resources>
</model>`

	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model":          root,
		"3D/Objects/object_1.model": part,
	})

	result, err := Import(path, Options{PaletteSource: PaletteGenerated})
	require.NoError(t, err)
	require.Len(t, result.Instances, 1)
	assert.Equal(t, "elsewhere", result.Instances[0].Name)
}
