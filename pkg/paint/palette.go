package paint

import (
	"math"
	"strconv"
	"strings"
)

// Color is an RGBA color with components in the 0-1 range.
type Color [4]float64

// White is the fallback when no palette entry is available at all.
var White = Color{1, 1, 1, 1}

// goldenRatioConjugate spaces hues so small palettes stay visually
// distinct without knowing the final count in advance.
const goldenRatioConjugate = 0.618033988749895

// ParseHexColor converts a "#RRGGBB" literal to a Color with alpha 1.
// Exactly six hex digits are required; anything else reports false.
func ParseHexColor(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}

	return Color{
		float64(v>>16&0xff) / 255.0,
		float64(v>>8&0xff) / 255.0,
		float64(v&0xff) / 255.0,
		1.0,
	}, true
}

// GeneratePalette returns count visually distinct opaque colors. The
// hue walks the golden-ratio sequence starting at 0 while saturation
// cycles over {0.7, 0.8, 0.9} and value alternates between 0.9 and
// 0.75. The output depends only on count.
func GeneratePalette(count int) []Color {
	colors := make([]Color, 0, count)
	hue := 0.0

	for i := 0; i < count; i++ {
		saturation := 0.7 + float64(i%3)*0.1
		value := 0.9 - float64(i%2)*0.15

		r, g, b := hsvToRGB(hue, saturation, value)
		colors = append(colors, Color{r, g, b, 1.0})

		hue = math.Mod(hue+goldenRatioConjugate, 1.0)
	}

	return colors
}

// hsvToRGB is the standard HSV to RGB transform, all components 0-1.
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}

	h = math.Mod(h, 1.0) * 6.0
	sector := int(h)
	f := h - float64(sector)

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch sector {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
