package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell payload format, kept deliberately short so a cell stays decodable at
// small print sizes: "CB1:<row>,<col>,<row_count>,<col_count>,<size>,<border>".
// The geometry travels in every cell so a decoder can recover both the cell
// identity and the board scale from any single code.
const payloadPrefix = "CB1:"

// EncodeCellPayload returns the QR payload for cell (row, col) of the board.
func EncodeCellPayload(g Geometry, row, col int) string {
	return fmt.Sprintf("%s%d,%d,%d,%d,%d,%d",
		payloadPrefix, row, col, g.RowCount, g.ColCount, g.QRPixelSize, g.QRBorder)
}

// DecodeCellPayload parses a QR payload produced by EncodeCellPayload. It
// returns the board geometry and the cell identity. The geometry is validated;
// the cell is not range-checked here since callers decide how to treat
// out-of-range cells.
func DecodeCellPayload(payload string) (Geometry, int, int, error) {
	body, ok := strings.CutPrefix(payload, payloadPrefix)
	if !ok {
		return Geometry{}, 0, 0, fmt.Errorf("not a calibration cell payload: %q", payload)
	}
	fields := strings.Split(body, ",")
	if len(fields) != 6 {
		return Geometry{}, 0, 0, fmt.Errorf("malformed cell payload: %q", payload)
	}
	vals := make([]int, 6)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Geometry{}, 0, 0, fmt.Errorf("malformed cell payload field %q: %w", f, err)
		}
		vals[i] = v
	}
	g, err := NewGeometry(vals[2], vals[3], vals[4], vals[5])
	if err != nil {
		return Geometry{}, 0, 0, err
	}
	return g, vals[0], vals[1], nil
}
