// Package threemf provides reading functionality for 3MF archives: zip
// containers holding XML model documents plus slicer metadata.
//
// Model document discovery follows both the 3MF core specification
// (a single 3D/3dmodel.model) and the production extension (multiple
// object_*.model files under 3D/Objects/).
package threemf

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Archive errors.
var (
	ErrNotZip        = errors.New("not a valid 3MF (zip) archive")
	ErrEntryNotFound = errors.New("entry not found in archive")
)

// rootModelPath is the canonical core-spec model document location,
// compared after path normalization.
const rootModelPath = "3d/3dmodel.model"

// Archive represents an opened 3MF archive.
type Archive struct {
	path       string
	reader     *zip.ReadCloser
	entries    map[string]*zip.File
	names      []string
	modelFiles []string
}

// Open opens a 3MF archive for reading.
func Open(path string) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotZip, path, err)
	}

	archive := &Archive{
		path:    path,
		reader:  reader,
		entries: make(map[string]*zip.File, len(reader.File)),
	}
	for _, f := range reader.File {
		archive.entries[f.Name] = f
		archive.names = append(archive.names, f.Name)
	}

	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.reader != nil {
		return a.reader.Close()
	}
	return nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// List returns all entry paths in the archive, in container order.
func (a *Archive) List() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Contains checks whether an entry exists.
func (a *Archive) Contains(path string) bool {
	_, ok := a.entries[path]
	return ok
}

// Read reads one entry from the archive.
func (a *Archive) Read(path string) ([]byte, error) {
	entry, ok := a.entries[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", path, err)
	}
	return data, nil
}

// ModelFiles discovers all model documents in the archive, ordered for
// reproducible merges: the root document first if present, then object
// container documents sorted, then any other .model entries sorted.
// The root typically declares build items referencing objects defined
// in the container documents, so it has to be parsed first.
func (a *Archive) ModelFiles() []string {
	if a.modelFiles != nil {
		return a.modelFiles
	}

	var root string
	var containers, others []string

	for _, name := range a.names {
		norm := NormalizePath(name)
		if !strings.HasSuffix(norm, ".model") {
			continue
		}

		switch {
		case norm == rootModelPath:
			root = name
		case strings.HasPrefix(norm, "3d/objects/") || strings.Contains(norm, "/3d/objects/"):
			containers = append(containers, name)
		default:
			others = append(others, name)
		}
	}

	sort.Strings(containers)
	sort.Strings(others)

	files := make([]string, 0, len(containers)+len(others)+1)
	if root != "" {
		files = append(files, root)
	}
	files = append(files, containers...)
	files = append(files, others...)

	a.modelFiles = files
	return files
}

// NormalizePath normalizes an archive-internal path for map lookups:
// backslashes become slashes, leading slashes are stripped, and the
// result is lowercased. Vendors are inconsistent about casing and
// separators in cross-document references, so every path used as a key
// goes through this.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	return strings.ToLower(path)
}
