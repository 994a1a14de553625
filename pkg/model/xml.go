package model

import (
	"bytes"
	"encoding/xml"
)

// element is a generic XML tree node. Decoding into it keeps every
// child element and attribute with both its namespace and local name,
// so lookups can match on local names alone.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

// decodeTree parses data into a generic element tree. Malformed XML is
// the only failure mode.
func decodeTree(data []byte) (*element, error) {
	var root element
	if err := xml.Unmarshal(bytes.TrimSpace(data), &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// child returns the first direct child whose local name matches,
// ignoring any namespace or prefix.
func (e *element) child(local string) *element {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == local {
			return &e.Children[i]
		}
	}
	return nil
}

// childrenNamed returns all direct children with the given local name.
func (e *element) childrenNamed(local string) []*element {
	var out []*element
	for i := range e.Children {
		if e.Children[i].XMLName.Local == local {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// attr looks an attribute up by local name: an unqualified attribute of
// that name wins, otherwise any prefixed/namespaced attribute whose
// local part matches. Vendors attach extension attributes (path,
// paint_color) with inconsistent prefixes, so both steps are needed.
func (e *element) attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// attrDefault is attr with a fallback value.
func (e *element) attrDefault(local, def string) string {
	if v, ok := e.attr(local); ok {
		return v
	}
	return def
}
