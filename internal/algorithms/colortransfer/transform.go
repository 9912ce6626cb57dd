package colortransfer

import (
	"color-transfer/internal/processing/matching"

	"github.com/chewxy/math32"
)

// Vec3 is an RGB triple in 8-bit units, kept in float32 so repeated passes
// do not accumulate quantisation error.
type Vec3 [3]float32

func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Matrix3 is a row-major 3x3 matrix.
type Matrix3 [9]float32

// Mul returns m * v.
func (m Matrix3) Mul(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// MulTransposed returns m^T * v, the inverse rotation for orthonormal m.
func (m Matrix3) MulTransposed(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[3]*v[1] + m[6]*v[2],
		m[1]*v[0] + m[4]*v[1] + m[7]*v[2],
		m[2]*v[0] + m[5]*v[1] + m[8]*v[2],
	}
}

// axisMap remaps one rotated coordinate. Coordinates are normalised onto
// the 8-bit level domain of [lo, lo+span] before going through the curve.
type axisMap struct {
	lo    float32
	span  float32
	curve *matching.Curve
}

func (a *axisMap) apply(v float32) float32 {
	if a == nil {
		return v
	}
	level := (v - a.lo) / a.span * 255
	mapped := float32(a.curve.Map(float64(level)))
	return a.lo + mapped*a.span/255
}

// pass is one rotation followed by up to three axis remaps. A nil axis was
// degenerate and is left unchanged.
type pass struct {
	rotation Matrix3
	axes     [3]*axisMap
}

func (p *pass) apply(c Vec3) Vec3 {
	r := p.rotation.Mul(c)
	for i, a := range p.axes {
		r[i] = a.apply(r[i])
	}
	return p.rotation.MulTransposed(r)
}

// Transform is the composite colour mapping accumulated over all passes.
// It is immutable once returned by a Driver.
type Transform struct {
	passes []pass
}

// Identity returns a transform that maps every colour to itself.
func Identity() *Transform {
	return &Transform{}
}

// Passes returns the number of recorded passes.
func (t *Transform) Passes() int {
	return len(t.passes)
}

// IsIdentity reports whether no pass was recorded.
func (t *Transform) IsIdentity() bool {
	return len(t.passes) == 0
}

// Apply evaluates the composite transform at c.
func (t *Transform) Apply(c Vec3) Vec3 {
	for i := range t.passes {
		c = t.passes[i].apply(c)
	}
	return c
}

// ApplyRGB evaluates the transform at an 8-bit colour and rounds the result
// back into [0, 255].
func (t *Transform) ApplyRGB(r, g, b uint8) (uint8, uint8, uint8) {
	out := t.Apply(Vec3{float32(r), float32(g), float32(b)})
	return toByte(out[0]), toByte(out[1]), toByte(out[2])
}

func toByte(v float32) uint8 {
	v = math32.Floor(v + 0.5)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
