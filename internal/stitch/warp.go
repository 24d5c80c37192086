package stitch

import (
	"fmt"
	"image"

	"board-stitcher/internal/calib"
	"board-stitcher/pkg/geometry"

	"gocv.io/x/gocv"
)

// GenWrappedPartial estimates the transform from the correspondences and
// warps partialImg into board space. The result is a 4-channel BGRA Mat whose
// alpha channel is 255 for pixels sourced from the original image and 0
// elsewhere, together with the tight bounding box of the warped content. The
// Mat's origin sits at the floored box corner; the caller owns it and must
// Close it.
func GenWrappedPartial(partialImg gocv.Mat, points []calib.MatchedPoint, scale float64) (gocv.Mat, WrappedBox, error) {
	if partialImg.Empty() {
		return gocv.Mat{}, WrappedBox{}, fmt.Errorf("empty partial image")
	}

	h, err := EstimateTransform(points, scale)
	if err != nil {
		return gocv.Mat{}, WrappedBox{}, err
	}

	box := cornerBox(h, partialImg.Cols(), partialImg.Rows())
	left, top, right, bottom := box.IntBounds()
	outW, outH := right-left, bottom-top

	// Shift the transform so the warped content lands at the Mat origin.
	shifted := h.Translate(float64(-left), float64(-top))
	m := homographyToMat(shifted)
	defer m.Close()

	// Carry an explicit alpha channel through the warp: the constant black
	// border fills uncovered pixels with alpha 0, marking rotated and
	// perspective-skewed corners as empty.
	bgra := gocv.NewMat()
	defer bgra.Close()
	gocv.CvtColor(partialImg, &bgra, gocv.ColorBGRToBGRA)

	warped := gocv.NewMat()
	gocv.WarpPerspective(bgra, &warped, m, image.Pt(outW, outH))

	return warped, box, nil
}

// CalcWrappedPartialBox runs the identical transform estimation but projects
// only the four source-image corners, returning the bounding box without
// materializing pixels. Used to size an aggregate canvas cheaply before
// paying for the full-resolution warps.
func CalcWrappedPartialBox(width, height int, points []calib.MatchedPoint, scale float64) (WrappedBox, error) {
	h, err := EstimateTransform(points, scale)
	if err != nil {
		return WrappedBox{}, err
	}
	return cornerBox(h, width, height), nil
}

// homographyToMat converts a homography to a 3x3 CV64F Mat for gocv.
func homographyToMat(h geometry.Homography) gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.SetDoubleAt(i, j, h.M[i][j])
		}
	}
	return m
}
