package threemf

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/meshkit/threemf/pkg/paint"
)

// Fixed candidate locations for slicer project metadata.
// project_settings.config carries the filament_colour array in Bambu
// Studio projects, so it goes first.
var paletteCandidates = []string{
	"Metadata/project_settings.config",
	"Metadata/model_settings.config",
	"Metadata/slice_info.config",
	".config/filament_settings.config",
}

var (
	filamentKVPattern = regexp.MustCompile(`(?i)filament[_\s]*colou?r["\s:=]+["']?(#[0-9A-Fa-f]{6})["']?`)
	hexArrayPattern   = regexp.MustCompile(`\[((?:\s*"#[0-9A-Fa-f]{6}"\s*,?\s*)+)\]`)
	hexLiteralPattern = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)
)

// FilamentPalette attempts to extract filament colors from slicer
// project metadata. It scans the fixed candidate paths first, then any
// metadata-looking entry, and returns the first non-empty palette.
// A nil result just means nothing was found; callers fall back to a
// generated palette.
func (a *Archive) FilamentPalette() []paint.Color {
	candidates := append([]string{}, paletteCandidates...)
	seen := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		seen[p] = true
	}

	for _, name := range a.names {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "metadata") {
			continue
		}
		if !strings.HasSuffix(lower, ".config") &&
			!strings.HasSuffix(lower, ".json") &&
			!strings.HasSuffix(lower, ".xml") {
			continue
		}
		if !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	for _, path := range candidates {
		data, err := a.Read(path)
		if err != nil {
			continue
		}
		if palette := parseFilamentColors(data); len(palette) > 0 {
			return palette
		}
	}
	return nil
}

// parseFilamentColors mines one metadata payload for filament colors.
// Strategy, in order: structured JSON key search, key/value pattern
// scan, then any bracketed run of quoted hex literals.
func parseFilamentColors(data []byte) []paint.Color {
	text := strings.ToValidUTF8(string(data), "�")

	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if colors := searchColorKeys(parsed, 0); len(colors) > 0 {
			return colors
		}
	}

	var colors []paint.Color
	for _, m := range filamentKVPattern.FindAllStringSubmatch(text, -1) {
		if c, ok := paint.ParseHexColor(m[1]); ok {
			colors = append(colors, c)
		}
	}
	if len(colors) > 0 {
		return colors
	}

	if m := hexArrayPattern.FindStringSubmatch(text); m != nil {
		for _, lit := range hexLiteralPattern.FindAllString(m[1], -1) {
			if c, ok := paint.ParseHexColor(lit); ok {
				colors = append(colors, c)
			}
		}
	}
	return colors
}

// searchColorKeys walks parsed JSON depth-first looking for a filament
// color key. The first match wins and stops the search; map keys are
// visited in sorted order so the result does not depend on map
// iteration order. Depth is capped to guard against pathological
// nesting.
func searchColorKeys(node interface{}, depth int) []paint.Color {
	if depth > 10 {
		return nil
	}

	switch v := node.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if isFilamentColorKey(k) {
				if colors := colorsFromValue(v[k]); len(colors) > 0 {
					return colors
				}
				continue
			}
			if colors := searchColorKeys(v[k], depth+1); len(colors) > 0 {
				return colors
			}
		}
	case []interface{}:
		for _, item := range v {
			if colors := searchColorKeys(item, depth+1); len(colors) > 0 {
				return colors
			}
		}
	}
	return nil
}

// isFilamentColorKey matches filament_colour/filament_color exactly, or
// any key mentioning both filament and color/colour.
func isFilamentColorKey(key string) bool {
	k := strings.ToLower(key)
	if k == "filament_colour" || k == "filament_color" {
		return true
	}
	return strings.Contains(k, "filament") &&
		(strings.Contains(k, "color") || strings.Contains(k, "colour"))
}

// colorsFromValue converts a matched key's value: either a list of hex
// strings or a single hex string. Malformed literals are skipped, not
// fatal.
func colorsFromValue(value interface{}) []paint.Color {
	var colors []paint.Color

	switch v := value.(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.HasPrefix(s, "#") {
				if c, ok := paint.ParseHexColor(s); ok {
					colors = append(colors, c)
				}
			}
		}
	case string:
		if strings.HasPrefix(v, "#") {
			if c, ok := paint.ParseHexColor(v); ok {
				colors = append(colors, c)
			}
		}
	}
	return colors
}
