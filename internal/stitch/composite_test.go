package stitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// solidPartial builds a BGRA partial of one solid color covering box exactly.
func solidPartial(b, g, r, a float64, box WrappedBox) Partial {
	left, top, right, bottom := box.IntBounds()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, a),
		bottom-top, right-left, gocv.MatTypeCV8UC4)
	return Partial{Image: m, Box: box}
}

func bgrAt(m gocv.Mat, x, y int) [3]uint8 {
	return [3]uint8{
		m.GetUCharAt(y, x*3+0),
		m.GetUCharAt(y, x*3+1),
		m.GetUCharAt(y, x*3+2),
	}
}

func TestCompositeLastWriterWins(t *testing.T) {
	red := solidPartial(0, 0, 255, 255, WrappedBox{Left: 0, Top: 0, Right: 10, Bottom: 10})
	defer red.Image.Close()
	green := solidPartial(0, 255, 0, 255, WrappedBox{Left: 5, Top: 5, Right: 15, Bottom: 15})
	defer green.Image.Close()

	canvas, err := Composite([]Partial{red, green})
	require.NoError(t, err)
	defer canvas.Close()

	assert.Equal(t, 15, canvas.Cols())
	assert.Equal(t, 15, canvas.Rows())
	assert.Equal(t, 3, canvas.Channels())

	// Overlap takes the later partial's color.
	assert.Equal(t, [3]uint8{0, 255, 0}, bgrAt(canvas, 7, 7))
	// Red-only region.
	assert.Equal(t, [3]uint8{0, 0, 255}, bgrAt(canvas, 2, 2))
	// Green-only region.
	assert.Equal(t, [3]uint8{0, 255, 0}, bgrAt(canvas, 13, 13))
	// Covered by neither: stays zeroed.
	assert.Equal(t, [3]uint8{0, 0, 0}, bgrAt(canvas, 12, 2))
}

func TestCompositeOrderMatters(t *testing.T) {
	red := solidPartial(0, 0, 255, 255, WrappedBox{Left: 0, Top: 0, Right: 10, Bottom: 10})
	defer red.Image.Close()
	green := solidPartial(0, 255, 0, 255, WrappedBox{Left: 0, Top: 0, Right: 10, Bottom: 10})
	defer green.Image.Close()

	canvas, err := Composite([]Partial{green, red})
	require.NoError(t, err)
	defer canvas.Close()
	assert.Equal(t, [3]uint8{0, 0, 255}, bgrAt(canvas, 5, 5))
}

func TestCompositeSkipsTransparentPixels(t *testing.T) {
	red := solidPartial(0, 0, 255, 255, WrappedBox{Left: 0, Top: 0, Right: 10, Bottom: 10})
	defer red.Image.Close()
	// Same area but fully transparent: must not overwrite.
	ghost := solidPartial(255, 255, 255, 0, WrappedBox{Left: 0, Top: 0, Right: 10, Bottom: 10})
	defer ghost.Image.Close()

	canvas, err := Composite([]Partial{red, ghost})
	require.NoError(t, err)
	defer canvas.Close()
	assert.Equal(t, [3]uint8{0, 0, 255}, bgrAt(canvas, 5, 5))
}

func TestCompositeNegativeCoordinates(t *testing.T) {
	a := solidPartial(10, 20, 30, 255, WrappedBox{Left: -5.5, Top: -3.2, Right: 4.5, Bottom: 6.8})
	defer a.Image.Close()

	canvas, err := Composite([]Partial{a})
	require.NoError(t, err)
	defer canvas.Close()

	// Union is floored/ceiled: [-6,5) x [-4,7).
	assert.Equal(t, 11, canvas.Cols())
	assert.Equal(t, 11, canvas.Rows())
	assert.Equal(t, [3]uint8{10, 20, 30}, bgrAt(canvas, 5, 5))
}

func TestCompositeInputValidation(t *testing.T) {
	_, err := Composite(nil)
	assert.Error(t, err)

	bad := Partial{
		Image: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 10, 10, gocv.MatTypeCV8UC3),
		Box:   WrappedBox{Left: 0, Top: 0, Right: 10, Bottom: 10},
	}
	defer bad.Image.Close()
	_, err = Composite([]Partial{bad})
	assert.Error(t, err)
}
