// Package calib accumulates matched point correspondences per sub-image and
// persists them, together with the board geometry, as a calibration result.
package calib

import (
	"board-stitcher/internal/board"
	"board-stitcher/pkg/geometry"
)

// MatchedPoint pairs a board-space coordinate with the image-space coordinate
// believed to denote the same physical point on one sub-image. Immutable
// value; duplicates are allowed (user edits may produce them).
type MatchedPoint struct {
	ImgID    string
	CBPoint  geometry.Point2D
	ImgPoint geometry.Point2D
}

// NewMatchedPoint creates a MatchedPoint.
func NewMatchedPoint(imgID string, cbPoint, imgPoint geometry.Point2D) MatchedPoint {
	return MatchedPoint{ImgID: imgID, CBPoint: cbPoint, ImgPoint: imgPoint}
}

// Result owns one board geometry and the matched points recorded against it,
// in insertion order. Created fresh per calibration session or restored from
// a file; written out explicitly via Save.
type Result struct {
	board  board.Geometry
	points []MatchedPoint
}

// NewResult creates an empty Result bound to a board geometry.
func NewResult(geom board.Geometry) *Result {
	return &Result{board: geom}
}

// Board returns the board geometry.
func (r *Result) Board() board.Geometry {
	return r.board
}

// AddMatchedPoint appends a point. No deduplication is performed.
func (r *Result) AddMatchedPoint(p MatchedPoint) {
	r.points = append(r.points, p)
}

// Points returns all matched points in insertion order.
func (r *Result) Points() []MatchedPoint {
	out := make([]MatchedPoint, len(r.points))
	copy(out, r.points)
	return out
}

// MatchedPoints returns the points recorded for one image, in insertion
// order. Empty when none were recorded.
func (r *Result) MatchedPoints(imgID string) []MatchedPoint {
	var out []MatchedPoint
	for _, p := range r.points {
		if p.ImgID == imgID {
			out = append(out, p)
		}
	}
	return out
}

// MatchedImageIDs returns the ids of images holding at least one point, in
// first-seen order. Stitching additionally needs three or more points per
// image; callers filter for that.
func (r *Result) MatchedImageIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, p := range r.points {
		if !seen[p.ImgID] {
			seen[p.ImgID] = true
			ids = append(ids, p.ImgID)
		}
	}
	return ids
}

// MeanSubImageScale estimates a single normalization factor across all
// sub-images: for every image with two or more points, the ratio of
// board-space to image-space distance over every point pair, averaged across
// all pairs of all images. Pairs with zero image-space distance are skipped.
// Returns 0 when no usable pair exists.
func (r *Result) MeanSubImageScale() float64 {
	var sum float64
	var count int
	for _, id := range r.MatchedImageIDs() {
		pts := r.MatchedPoints(id)
		for i := 0; i < len(pts); i++ {
			for j := i + 1; j < len(pts); j++ {
				dImg := pts[i].ImgPoint.Distance(pts[j].ImgPoint)
				if dImg == 0 {
					continue
				}
				sum += pts[i].CBPoint.Distance(pts[j].CBPoint) / dImg
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
