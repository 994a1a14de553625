package threemf

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeArchive builds a zip file from path -> content pairs and
// returns its location.
func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.3mf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return path
}

func TestOpen_NotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.3mf")
	if err := os.WriteFile(path, []byte("this is not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrNotZip) {
		t.Errorf("err = %v, want ErrNotZip", err)
	}
}

func TestArchive_ReadAndContains(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3D/3dmodel.model": "<model/>",
		"Metadata/x.txt":   "hello",
	})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if !a.Contains("Metadata/x.txt") {
		t.Error("Contains = false for existing entry")
	}
	if a.Contains("nope") {
		t.Error("Contains = true for missing entry")
	}

	data, err := a.Read("Metadata/x.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}

	if _, err := a.Read("missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestArchive_ModelFilesOrdering(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3D/Objects/object_2.model": "<model/>",
		"other/extra.model":         "<model/>",
		"3D/Objects/object_1.model": "<model/>",
		"3D/3dmodel.model":          "<model/>",
		"Metadata/thumb.png":        "png",
	})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	got := a.ModelFiles()
	want := []string{
		"3D/3dmodel.model",
		"3D/Objects/object_1.model",
		"3D/Objects/object_2.model",
		"other/extra.model",
	}

	if len(got) != len(want) {
		t.Fatalf("ModelFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ModelFiles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArchive_ModelFilesCaseInsensitive(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"3d/3DModel.MODEL": "<model/>",
	})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	got := a.ModelFiles()
	if len(got) != 1 || got[0] != "3d/3DModel.MODEL" {
		t.Errorf("ModelFiles = %v, want the mixed-case root", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3D/3dmodel.model", "3d/3dmodel.model"},
		{"/3D/Objects/Part.model", "3d/objects/part.model"},
		{"\\3D\\Objects\\part.model", "3d/objects/part.model"},
		{"already/normal.model", "already/normal.model"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
