package stitch

import (
	"log"

	"board-stitcher/internal/board"
	"board-stitcher/internal/calib"
	"board-stitcher/pkg/geometry"

	"gocv.io/x/gocv"
)

// decodedQR is one QR symbol decoded from an image: its payload text and the
// pixel positions of its four corners.
type decodedQR struct {
	text    string
	corners [4]geometry.Point2D
}

// decodeQRCodes finds and decodes every QR symbol in img. Symbols that were
// located but failed to decode come back with empty text; callers skip them.
func decodeQRCodes(img gocv.Mat) []decodedQR {
	detector := gocv.NewQRCodeDetector()
	defer detector.Close()

	decoded := []string{}
	points := gocv.NewMat()
	defer points.Close()
	qrCodes := []gocv.Mat{}

	found := detector.DetectAndDecodeMulti(img, &decoded, &points, &qrCodes)
	for i := range qrCodes {
		qrCodes[i].Close()
	}
	if !found {
		return nil
	}

	out := make([]decodedQR, 0, len(decoded))
	for i, text := range decoded {
		var q decodedQR
		q.text = text
		for j := 0; j < 4; j++ {
			v := points.GetVecfAt(i, j)
			q.corners[j] = geometry.Point2D{X: float64(v[0]), Y: float64(v[1])}
		}
		out = append(out, q)
	}
	return out
}

// Match detects every decodable calibration cell in img and emits one
// correspondence per cell: the cell's board-space point against the symbol's
// pixel centroid. Codes that fail to decode, decode to an out-of-range cell,
// or carry a different board's parameters are dropped. Zero codes is not an
// error; an empty result means "skip this image".
func (s *Stitcher) Match(img gocv.Mat, imgID string) []calib.MatchedPoint {
	if img.Empty() {
		return nil
	}

	var matched []calib.MatchedPoint
	for _, q := range decodeQRCodes(img) {
		if q.text == "" {
			continue // located but not decoded
		}
		geom, row, col, err := board.DecodeCellPayload(q.text)
		if err != nil {
			continue
		}
		if geom != s.board {
			log.Printf("Match %s: cell (%d,%d) encodes a different board, dropped", imgID, row, col)
			continue
		}
		if !s.board.Contains(row, col) {
			continue
		}
		matched = append(matched, calib.NewMatchedPoint(
			imgID,
			s.board.CellToBoardPoint(row, col),
			geometry.Centroid(q.corners[:]),
		))
	}
	return matched
}
