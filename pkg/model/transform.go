package model

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultUnitScale is the millimeter scale used when no document in the
// archive declares a unit.
const DefaultUnitScale = 1e-3

// unitScales maps 3MF unit names to meters-per-unit.
var unitScales = map[string]float64{
	"micron":     1e-6,
	"millimeter": 1e-3,
	"centimeter": 1e-2,
	"inch":       0.0254,
	"foot":       0.3048,
	"meter":      1.0,
}

// UnitScaleFor maps a document unit attribute to a scale factor.
// Unrecognized or empty names report false so the caller can apply its
// own default.
func UnitScaleFor(unit string) (float64, bool) {
	scale, ok := unitScales[strings.ToLower(unit)]
	return scale, ok
}

// ParseTransform parses a 3MF transform string: 12 whitespace-separated
// floats in row-major 3x4 layout, rows [m0 m1 m2], [m3 m4 m5],
// [m6 m7 m8] for the linear part and [m9 m10 m11] for the translation.
//
// The returned matrix is built for column vectors: apply it with
// p' = M * p (mgl64.TransformCoordinate), and compose nested transforms
// as parent.Mul4(child). Consumers that multiply row vectors need the
// transpose.
//
// Wrong token count or a non-numeric token reports false rather than an
// error; callers treat a missing transform as identity.
func ParseTransform(s string) (mgl64.Mat4, bool) {
	fields := strings.Fields(s)
	if len(fields) != 12 {
		return mgl64.Mat4{}, false
	}

	var m [12]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return mgl64.Mat4{}, false
		}
		m[i] = v
	}

	// mgl64 matrices are column-major.
	return mgl64.Mat4{
		m[0], m[3], m[6], 0,
		m[1], m[4], m[7], 0,
		m[2], m[5], m[8], 0,
		m[9], m[10], m[11], 1,
	}, true
}

// FormatTransform is the inverse of ParseTransform: it encodes the
// rotation/scale block and translation of m as the 12-token string
// form. The bottom row is assumed affine and not encoded.
func FormatTransform(m mgl64.Mat4) string {
	values := [12]float64{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
		m.At(0, 3), m.At(1, 3), m.At(2, 3),
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
