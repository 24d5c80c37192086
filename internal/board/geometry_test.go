package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeometryValidation(t *testing.T) {
	tests := []struct {
		name                   string
		rows, cols, size, brdr int
		wantErr                bool
	}{
		{"valid", 5, 5, 40, 5, false},
		{"single cell", 1, 1, 1, 0, false},
		{"zero rows", 0, 5, 40, 5, true},
		{"zero cols", 5, 0, 40, 5, true},
		{"zero size", 5, 5, 0, 5, true},
		{"negative size", 5, 5, -1, 5, true},
		{"negative border", 5, 5, 40, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeometry(tt.rows, tt.cols, tt.size, tt.brdr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGeometry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCellToBoardPointFormula(t *testing.T) {
	geom, err := NewGeometry(5, 5, 40, 5)
	require.NoError(t, err)

	p := geom.CellToBoardPoint(0, 0)
	assert.Equal(t, 5.0, p.X)
	assert.Equal(t, 5.0, p.Y)

	p = geom.CellToBoardPoint(2, 3)
	assert.Equal(t, 5.0+3*45, p.X)
	assert.Equal(t, 5.0+2*45, p.Y)
}

func TestCellToBoardPointInjectiveAndIncreasing(t *testing.T) {
	geom, err := NewGeometry(5, 5, 40, 5)
	require.NoError(t, err)

	seen := make(map[[2]float64]bool)
	for row := 0; row < geom.RowCount; row++ {
		for col := 0; col < geom.ColCount; col++ {
			p := geom.CellToBoardPoint(row, col)
			key := [2]float64{p.X, p.Y}
			assert.False(t, seen[key], "cell (%d,%d) collides", row, col)
			seen[key] = true

			if col > 0 {
				prev := geom.CellToBoardPoint(row, col-1)
				assert.Greater(t, p.X, prev.X)
			}
			if row > 0 {
				prev := geom.CellToBoardPoint(row-1, col)
				assert.Greater(t, p.Y, prev.Y)
			}
		}
	}
}

func TestBoardExtent(t *testing.T) {
	geom, err := NewGeometry(3, 7, 40, 5)
	require.NoError(t, err)

	assert.Equal(t, 7*45+5, geom.PixelWidth())
	assert.Equal(t, 3*45+5, geom.PixelHeight())
	assert.Equal(t, 21, geom.CellCount())
}

func TestGeometryEquality(t *testing.T) {
	a, _ := NewGeometry(5, 5, 40, 5)
	b, _ := NewGeometry(5, 5, 40, 5)
	c, _ := NewGeometry(5, 5, 40, 6)
	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestContains(t *testing.T) {
	geom, _ := NewGeometry(2, 3, 10, 1)
	assert.True(t, geom.Contains(0, 0))
	assert.True(t, geom.Contains(1, 2))
	assert.False(t, geom.Contains(2, 0))
	assert.False(t, geom.Contains(0, 3))
	assert.False(t, geom.Contains(-1, 0))
}
