// Package board models the printed QR calibration board: grid geometry, the
// self-describing payload encoded in every cell, and the raster generator.
package board

import (
	"errors"
	"fmt"

	"board-stitcher/pkg/geometry"
)

// ErrInvalidGeometry is returned when board parameters fail validation.
var ErrInvalidGeometry = errors.New("invalid board geometry")

// Geometry describes the calibration board grid. Cells are QRPixelSize wide
// squares separated (and surrounded) by a QRBorder margin, so the board extent
// is ColCount*(QRPixelSize+QRBorder)+QRBorder pixels across, and the analogous
// expression down. Immutable once constructed; compare with ==.
type Geometry struct {
	RowCount    int `json:"row_count"`
	ColCount    int `json:"col_count"`
	QRPixelSize int `json:"qr_pixel_size"`
	QRBorder    int `json:"qr_border"`
}

// NewGeometry validates the parameters and returns the geometry.
func NewGeometry(rowCount, colCount, qrPixelSize, qrBorder int) (Geometry, error) {
	g := Geometry{
		RowCount:    rowCount,
		ColCount:    colCount,
		QRPixelSize: qrPixelSize,
		QRBorder:    qrBorder,
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate checks the geometry invariants.
func (g Geometry) Validate() error {
	if g.RowCount < 1 {
		return fmt.Errorf("%w: row_count %d < 1", ErrInvalidGeometry, g.RowCount)
	}
	if g.ColCount < 1 {
		return fmt.Errorf("%w: col_count %d < 1", ErrInvalidGeometry, g.ColCount)
	}
	if g.QRPixelSize <= 0 {
		return fmt.Errorf("%w: qr_pixel_size %d <= 0", ErrInvalidGeometry, g.QRPixelSize)
	}
	if g.QRBorder < 0 {
		return fmt.Errorf("%w: qr_border %d < 0", ErrInvalidGeometry, g.QRBorder)
	}
	return nil
}

// CellToBoardPoint returns the top-left corner of the printable area of cell
// (row, col) in board-space. The mapping is strictly increasing in each axis.
func (g Geometry) CellToBoardPoint(row, col int) geometry.Point2D {
	pitch := float64(g.QRPixelSize + g.QRBorder)
	return geometry.Point2D{
		X: float64(g.QRBorder) + float64(col)*pitch,
		Y: float64(g.QRBorder) + float64(row)*pitch,
	}
}

// Contains reports whether (row, col) addresses a cell on the board.
func (g Geometry) Contains(row, col int) bool {
	return row >= 0 && row < g.RowCount && col >= 0 && col < g.ColCount
}

// PixelWidth returns the horizontal board extent in board-space pixels.
func (g Geometry) PixelWidth() int {
	return g.ColCount*(g.QRPixelSize+g.QRBorder) + g.QRBorder
}

// PixelHeight returns the vertical board extent in board-space pixels.
func (g Geometry) PixelHeight() int {
	return g.RowCount*(g.QRPixelSize+g.QRBorder) + g.QRBorder
}

// CellCount returns the number of cells on the board.
func (g Geometry) CellCount() int {
	return g.RowCount * g.ColCount
}
