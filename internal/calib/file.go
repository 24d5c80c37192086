package calib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"board-stitcher/internal/board"
	"board-stitcher/pkg/geometry"
)

// ErrCorruptFile is returned when a calibration file violates the schema.
var ErrCorruptFile = errors.New("corrupt calibration file")

// On-disk schema. Points keep their global insertion order so a load
// reproduces the Result exactly.
type pointRecord struct {
	ImgID    string     `json:"img_id"`
	CBPoint  [2]float64 `json:"cb_point"`
	ImgPoint [2]float64 `json:"img_point"`
}

type fileRecord struct {
	Board  board.Geometry `json:"board"`
	Points []pointRecord  `json:"points"`
}

// Save serializes the result to a JSON file.
func (r *Result) Save(path string) error {
	rec := fileRecord{Board: r.board, Points: make([]pointRecord, 0, len(r.points))}
	for _, p := range r.points {
		rec.Points = append(rec.Points, pointRecord{
			ImgID:    p.ImgID,
			CBPoint:  [2]float64{p.CBPoint.X, p.CBPoint.Y},
			ImgPoint: [2]float64{p.ImgPoint.X, p.ImgPoint.Y},
		})
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal calibration result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write calibration file %s: %w", path, err)
	}
	return nil
}

// LoadFromFile reads a calibration file written by Save. Schema violations
// (bad JSON, invalid board geometry, missing image ids) fail with
// ErrCorruptFile; read errors are returned as-is, wrapped.
func LoadFromFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file %s: %w", path, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, path, err)
	}
	if err := rec.Board.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, path, err)
	}

	result := NewResult(rec.Board)
	for i, p := range rec.Points {
		if p.ImgID == "" {
			return nil, fmt.Errorf("%w: %s: point %d has empty img_id", ErrCorruptFile, path, i)
		}
		result.AddMatchedPoint(MatchedPoint{
			ImgID:    p.ImgID,
			CBPoint:  geometry.Point2D{X: p.CBPoint[0], Y: p.CBPoint[1]},
			ImgPoint: geometry.Point2D{X: p.ImgPoint[0], Y: p.ImgPoint[1]},
		})
	}
	return result, nil
}
