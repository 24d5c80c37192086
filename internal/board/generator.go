package board

import (
	"fmt"
	"image"
	"image/draw"

	"board-stitcher/internal/imgio"
	"board-stitcher/pkg/progress"

	qrcode "github.com/skip2/go-qrcode"
	"gocv.io/x/gocv"
)

// Generator renders a printable calibration board image from a Geometry.
type Generator struct {
	// Level is the QR error correction level. Low keeps the symbol small,
	// which matters when cells are printed a few dozen pixels wide.
	Level qrcode.RecoveryLevel
}

// NewGenerator returns a Generator with default settings.
func NewGenerator() *Generator {
	return &Generator{Level: qrcode.Low}
}

// Generate rasterizes the board as a 3-channel BGR Mat sized to the board
// extent: white background, one QR code per cell encoding the cell identity
// and the geometry parameters. Progress is reported per cell, ending at 100.
// The caller owns the returned Mat and must Close it.
func (g *Generator) Generate(geom Geometry, sink progress.Sink) (gocv.Mat, error) {
	if err := geom.Validate(); err != nil {
		return gocv.Mat{}, err
	}
	if sink == nil {
		sink = progress.Discard
	}

	canvas := image.NewRGBA(image.Rect(0, 0, geom.PixelWidth(), geom.PixelHeight()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	total := geom.CellCount()
	done := 0
	for row := 0; row < geom.RowCount; row++ {
		for col := 0; col < geom.ColCount; col++ {
			code, err := qrcode.New(EncodeCellPayload(geom, row, col), g.Level)
			if err != nil {
				return gocv.Mat{}, fmt.Errorf("encode cell (%d,%d): %w", row, col, err)
			}
			// The surrounding qr_border margin serves as the quiet zone,
			// so the symbol itself can fill the whole cell.
			code.DisableBorder = true

			cell := code.Image(geom.QRPixelSize)
			origin := geom.CellToBoardPoint(row, col)
			rect := image.Rect(
				int(origin.X), int(origin.Y),
				int(origin.X)+geom.QRPixelSize, int(origin.Y)+geom.QRPixelSize,
			)
			draw.Draw(canvas, rect, cell, image.Point{}, draw.Src)

			done++
			sink.Progress(done * 100 / total)
		}
	}

	return imgio.ImageToMat(canvas), nil
}
