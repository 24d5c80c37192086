// Package stitch implements the calibration-and-stitching engine: QR-based
// point matching, planar transform estimation, perspective warping with alpha
// masking, and multi-image compositing. All operations are pure functions of
// their explicit inputs; a Stitcher stores only the board geometry and the
// normalization scale.
package stitch

import "errors"

var (
	// ErrNoBoardDetected means a QR scan found no decodable calibration
	// cell. Recoverable: callers fall back to manual or file-based
	// calibration.
	ErrNoBoardDetected = errors.New("no calibration board detected")

	// ErrInsufficientMatchedPoints means a transform was requested with
	// fewer than 3 correspondences. Recoverable: callers wait for more
	// annotations.
	ErrInsufficientMatchedPoints = errors.New("insufficient matched points")

	// ErrDegenerateGeometry means the correspondences are numerically
	// unfit for a stable transform (e.g. collinear points). Recoverable:
	// callers must add or move points.
	ErrDegenerateGeometry = errors.New("degenerate point geometry")
)
