package stitch

import (
	"fmt"
	"math"

	"board-stitcher/internal/calib"
	"board-stitcher/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// EstimateTransform fits the planar transform T: image-space -> board-space
// from point correspondences. Exactly 3 points yield an exact affine fit;
// 4 or more yield a least-squares projective homography. When scale > 0 the
// board-space coordinates are divided by it first, normalizing board units to
// the source-pixel scale across sessions and cameras.
func EstimateTransform(points []calib.MatchedPoint, scale float64) (geometry.Homography, error) {
	if len(points) < 3 {
		return geometry.Homography{}, fmt.Errorf("%w: have %d, need at least 3",
			ErrInsufficientMatchedPoints, len(points))
	}

	src := make([]geometry.Point2D, len(points))
	dst := make([]geometry.Point2D, len(points))
	for i, p := range points {
		src[i] = p.ImgPoint
		d := p.CBPoint
		if scale > 0 {
			d = d.Scale(1 / scale)
		}
		dst[i] = d
	}

	if collinear(src) || collinear(dst) {
		return geometry.Homography{}, fmt.Errorf("%w: points are collinear", ErrDegenerateGeometry)
	}

	if len(points) == 3 {
		affine, err := affineFromThree(src, dst)
		if err != nil {
			return geometry.Homography{}, err
		}
		return geometry.HomographyFromAffine(affine), nil
	}

	return homographyLeastSquares(src, dst)
}

// collinear reports whether all points lie numerically on one line (or
// coincide). The tolerance is relative to the point spread.
func collinear(points []geometry.Point2D) bool {
	// Anchor on the pair with the largest separation for stability.
	p0 := points[0]
	var p1 geometry.Point2D
	span := 0.0
	for _, p := range points[1:] {
		if d := p0.Distance(p); d > span {
			span = d
			p1 = p
		}
	}
	if span < 1e-9 {
		return true // all points coincide
	}

	dir := p1.Sub(p0)
	for _, p := range points {
		v := p.Sub(p0)
		perp := math.Abs(dir.X*v.Y-dir.Y*v.X) / span
		if perp > 1e-6*span {
			return false
		}
	}
	return true
}

// affineFromThree solves the exact 6-DOF affine fit from 3 correspondences.
// Build matrix equation: [x', y'] = [a, b, tx; c, d, ty] * [x, y, 1].
func affineFromThree(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	A := mat.NewDense(6, 6, nil)
	B := mat.NewVecDense(6, nil)

	for i := 0; i < 3; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// x' = a*x + b*y + tx
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		// y' = c*x + d*y + ty
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// homographyLeastSquares fits the full projective homography h00..h21 (h22=1)
// by least squares over the 2n x 8 DLT system:
//
//	x' = (h00 x + h01 y + h02)/(h20 x + h21 y + 1)
//	y' = (h10 x + h11 y + h12)/(h20 x + h21 y + 1)
func homographyLeastSquares(src, dst []geometry.Point2D) (geometry.Homography, error) {
	n := len(src)
	A := mat.NewDense(n*2, 8, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*xp)
		A.Set(i*2, 7, -y*xp)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*yp)
		A.Set(i*2+1, 7, -y*yp)
		B.SetVec(i*2+1, yp)
	}

	// Three collinear points among four leave the system rank deficient
	// without tripping the all-collinear check above.
	if c := mat.Cond(A, 2); math.IsInf(c, 0) || c > 1e12 {
		return geometry.Homography{}, fmt.Errorf("%w: ill-conditioned correspondence set", ErrDegenerateGeometry)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.Homography{}, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}

	h := geometry.Homography{M: [3][3]float64{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
		{params.AtVec(6), params.AtVec(7), 1},
	}}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(h.M[i][j]) || math.IsInf(h.M[i][j], 0) {
				return geometry.Homography{}, fmt.Errorf("%w: unstable solution", ErrDegenerateGeometry)
			}
		}
	}
	return h, nil
}
