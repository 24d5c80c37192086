package board

import (
	"testing"

	"board-stitcher/pkg/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBoardImageSizeAndProgress(t *testing.T) {
	geom, err := NewGeometry(3, 4, 40, 5)
	require.NoError(t, err)

	var reported []int
	img, err := NewGenerator().Generate(geom, progress.Func(func(p int) {
		reported = append(reported, p)
	}))
	require.NoError(t, err)
	defer img.Close()

	assert.Equal(t, geom.PixelWidth(), img.Cols())
	assert.Equal(t, geom.PixelHeight(), img.Rows())
	assert.Equal(t, 3, img.Channels())

	require.Len(t, reported, geom.CellCount())
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1])
	}
	assert.Equal(t, 100, reported[len(reported)-1])
}

func TestGenerateRejectsInvalidGeometry(t *testing.T) {
	_, err := NewGenerator().Generate(Geometry{RowCount: 0, ColCount: 5, QRPixelSize: 40, QRBorder: 5}, nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestGenerateNilSinkIsAccepted(t *testing.T) {
	geom, err := NewGeometry(1, 1, 60, 6)
	require.NoError(t, err)

	img, err := NewGenerator().Generate(geom, nil)
	require.NoError(t, err)
	defer img.Close()
	assert.False(t, img.Empty())
}
