package geometry

import "math"

// Homography represents a 3x3 planar projective transformation.
// Affine transforms are the special case with bottom row [0 0 1].
type Homography struct {
	M [3][3]float64
}

// IdentityHomography returns the identity homography.
func IdentityHomography() Homography {
	return Homography{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// HomographyFromAffine lifts a 2x3 affine transform to a homography.
func HomographyFromAffine(t AffineTransform) Homography {
	return Homography{M: [3][3]float64{
		{t.A, t.B, t.TX},
		{t.C, t.D, t.TY},
		{0, 0, 1},
	}}
}

// Apply maps a point through the homography, performing the projective division.
// Points on the line at infinity (zero denominator) map to (+Inf, +Inf).
func (h Homography) Apply(p Point2D) Point2D {
	w := h.M[2][0]*p.X + h.M[2][1]*p.Y + h.M[2][2]
	if w == 0 {
		return Point2D{X: math.Inf(1), Y: math.Inf(1)}
	}
	return Point2D{
		X: (h.M[0][0]*p.X + h.M[0][1]*p.Y + h.M[0][2]) / w,
		Y: (h.M[1][0]*p.X + h.M[1][1]*p.Y + h.M[1][2]) / w,
	}
}

// Mul returns the composition h * other (other applied first).
func (h Homography) Mul(other Homography) Homography {
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += h.M[i][k] * other.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// Translate returns the homography composed with a subsequent translation,
// i.e. Translate(tx,ty).Apply(p) == h.Apply(p) + (tx,ty).
func (h Homography) Translate(tx, ty float64) Homography {
	return HomographyFromAffine(Translation(tx, ty)).Mul(h)
}
