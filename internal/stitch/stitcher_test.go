package stitch

import (
	"testing"

	"board-stitcher/internal/board"
	"board-stitcher/internal/calib"
	"board-stitcher/pkg/geometry"
	"board-stitcher/pkg/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func generateBoard(t *testing.T, geom board.Geometry) gocv.Mat {
	t.Helper()
	img, err := board.NewGenerator().Generate(geom, progress.Discard)
	require.NoError(t, err)
	return img
}

func TestFromQRImageRecoversGeneratedGeometry(t *testing.T) {
	geom, err := board.NewGeometry(5, 5, 40, 5)
	require.NoError(t, err)

	img := generateBoard(t, geom)
	defer img.Close()

	s, err := FromQRImage(img)
	require.NoError(t, err)
	assert.Equal(t, geom, s.Board())
}

func TestFromQRImageNoBoard(t *testing.T) {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 200, 200, gocv.MatTypeCV8UC3)
	defer blank.Close()

	_, err := FromQRImage(blank)
	assert.ErrorIs(t, err, ErrNoBoardDetected)

	_, err = FromQRImage(gocv.NewMat())
	assert.ErrorIs(t, err, ErrNoBoardDetected)
}

func TestMatchReturnsEmptyOnBlankImage(t *testing.T) {
	geom, err := board.NewGeometry(5, 5, 40, 5)
	require.NoError(t, err)
	s, err := New(geom)
	require.NoError(t, err)

	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 200, 200, gocv.MatTypeCV8UC3)
	defer blank.Close()

	assert.Empty(t, s.Match(blank, "blank.jpg"))
	assert.Empty(t, s.Match(gocv.NewMat(), "empty.jpg"))
}

func TestMatchFindsCellsOnGeneratedBoard(t *testing.T) {
	// Larger cells decode more robustly; this test checks correspondence
	// consistency, not detector sensitivity.
	geom, err := board.NewGeometry(2, 2, 120, 12)
	require.NoError(t, err)

	img := generateBoard(t, geom)
	defer img.Close()

	s, err := New(geom)
	require.NoError(t, err)

	points := s.Match(img, "board.png")
	require.NotEmpty(t, points)

	pitch := float64(geom.QRPixelSize + geom.QRBorder)
	half := float64(geom.QRPixelSize) / 2
	for _, p := range points {
		assert.Equal(t, "board.png", p.ImgID)

		// The board point must be an exact cell corner.
		col := (p.CBPoint.X - float64(geom.QRBorder)) / pitch
		row := (p.CBPoint.Y - float64(geom.QRBorder)) / pitch
		assert.InDelta(t, col, float64(int(col+0.5)), 1e-9)
		assert.InDelta(t, row, float64(int(row+0.5)), 1e-9)
		assert.True(t, geom.Contains(int(row+0.5), int(col+0.5)))

		// The board was not warped, so the pixel centroid sits at the
		// cell center of the same cell.
		assert.InDelta(t, p.CBPoint.X+half, p.ImgPoint.X, 8)
		assert.InDelta(t, p.CBPoint.Y+half, p.ImgPoint.Y, 8)
	}
}

func TestFromCalibFileMatchesQRPath(t *testing.T) {
	geom, err := board.NewGeometry(5, 5, 40, 5)
	require.NoError(t, err)

	result := calib.NewResult(geom)
	result.AddMatchedPoint(calib.NewMatchedPoint("a.jpg",
		geometry.NewPoint2D(5, 5), geometry.NewPoint2D(10, 20)))
	path := t.TempDir() + "/calib.json"
	require.NoError(t, result.Save(path))

	s, err := FromCalibFile(path)
	require.NoError(t, err)
	assert.Equal(t, geom, s.Board())
}

func TestFromCalibFilePropagatesCorruption(t *testing.T) {
	_, err := FromCalibFile(t.TempDir() + "/missing.json")
	assert.Error(t, err)
}

func TestStitcherScale(t *testing.T) {
	geom, err := board.NewGeometry(5, 5, 40, 5)
	require.NoError(t, err)
	s, err := New(geom)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Scale())
	s.SetScale(0.5)
	assert.Equal(t, 0.5, s.Scale())
}

func TestNewRejectsInvalidGeometry(t *testing.T) {
	_, err := New(board.Geometry{})
	assert.ErrorIs(t, err, board.ErrInvalidGeometry)
}
