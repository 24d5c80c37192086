package stitch

import (
	"fmt"

	"board-stitcher/internal/board"
	"board-stitcher/internal/calib"

	"gocv.io/x/gocv"
)

// Stitcher binds the engine operations to one board geometry. Beyond the
// geometry and the normalization scale it is stateless: transforms are
// recomputed from the caller-supplied point lists on every call, never
// cached, so edited points can never go stale. Safe for concurrent reads.
type Stitcher struct {
	board board.Geometry
	scale float64
}

// New creates a Stitcher bound to a validated board geometry.
func New(geom board.Geometry) (*Stitcher, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &Stitcher{board: geom}, nil
}

// FromQRImage constructs a Stitcher from the first decodable calibration
// cell found in img. Returns ErrNoBoardDetected when no cell decodes; the
// caller falls back to manual or file-based calibration.
func FromQRImage(img gocv.Mat) (*Stitcher, error) {
	if img.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrNoBoardDetected)
	}

	for _, payload := range decodeQRCodes(img) {
		geom, _, _, err := board.DecodeCellPayload(payload.text)
		if err != nil {
			continue
		}
		return New(geom)
	}
	return nil, ErrNoBoardDetected
}

// FromCalibFile constructs a Stitcher from a persisted calibration result,
// bypassing QR detection entirely. Geometrically equivalent to the FromQRImage
// path for the same board.
func FromCalibFile(path string) (*Stitcher, error) {
	result, err := calib.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return New(result.Board())
}

// Board returns the bound board geometry.
func (s *Stitcher) Board() board.Geometry {
	return s.board
}

// Scale returns the normalization scale, 0 when unset.
func (s *Stitcher) Scale() float64 {
	return s.scale
}

// SetScale records the normalization scale (typically
// calib.Result.MeanSubImageScale). Not synchronized against concurrent
// readers; set it before fan-out.
func (s *Stitcher) SetScale(scale float64) {
	s.scale = scale
}

// GenWrappedPartial warps one sub-image into board space using the bound
// scale. See the package-level GenWrappedPartial.
func (s *Stitcher) GenWrappedPartial(partialImg gocv.Mat, points []calib.MatchedPoint) (gocv.Mat, WrappedBox, error) {
	return GenWrappedPartial(partialImg, points, s.scale)
}

// CalcWrappedPartialBox computes only the warped bounding box using the
// bound scale. See the package-level CalcWrappedPartialBox.
func (s *Stitcher) CalcWrappedPartialBox(width, height int, points []calib.MatchedPoint) (WrappedBox, error) {
	return CalcWrappedPartialBox(width, height, points, s.scale)
}
