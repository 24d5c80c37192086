package stitch

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Partial is one warped sub-image (4-channel BGRA) with its board-space box.
type Partial struct {
	Image gocv.Mat
	Box   WrappedBox
}

// Composite merges warped partials into one flattened 3-channel canvas
// covering the union of their boxes. Partials are applied in list order and
// copy only where their alpha equals 255; later entries overwrite earlier
// ones in overlapping regions. The caller owns the returned Mat.
func Composite(partials []Partial) (gocv.Mat, error) {
	if len(partials) == 0 {
		return gocv.Mat{}, fmt.Errorf("no partials to composite")
	}

	boxes := make([]WrappedBox, len(partials))
	for i, p := range partials {
		boxes[i] = p.Box
	}
	left, top, right, bottom, _ := UnionIntBounds(boxes)
	width, height := right-left, bottom-top
	if width <= 0 || height <= 0 {
		return gocv.Mat{}, fmt.Errorf("degenerate canvas extent %dx%d", width, height)
	}

	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)

	for i, p := range partials {
		if p.Image.Empty() || p.Image.Channels() != 4 {
			canvas.Close()
			return gocv.Mat{}, fmt.Errorf("partial %d: expected 4-channel wrapped image", i)
		}
		if err := blitPartial(&canvas, p, left, top); err != nil {
			canvas.Close()
			return gocv.Mat{}, fmt.Errorf("partial %d: %w", i, err)
		}
	}

	return canvas, nil
}

// blitPartial copies one partial's covered pixels onto the canvas, clipping
// its box to the canvas bounds.
func blitPartial(canvas *gocv.Mat, p Partial, originX, originY int) error {
	pl, pt, _, _ := p.Box.IntBounds()

	// Partial placement in canvas coordinates.
	cl := pl - originX
	ct := pt - originY

	// Clip against both the canvas and the partial's own extent.
	x0 := max(cl, 0)
	y0 := max(ct, 0)
	x1 := min(cl+p.Image.Cols(), canvas.Cols())
	y1 := min(ct+p.Image.Rows(), canvas.Rows())
	if x1 <= x0 || y1 <= y0 {
		return nil // entirely outside the canvas
	}

	srcRect := image.Rect(x0-cl, y0-ct, x1-cl, y1-ct)
	dstRect := image.Rect(x0, y0, x1, y1)

	channels := gocv.Split(p.Image)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	if len(channels) != 4 {
		return fmt.Errorf("split yielded %d channels", len(channels))
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.Merge(channels[:3], &rgb)

	// Covered means fully opaque: warp interpolation leaves fractional
	// alpha at the content edge, which must not bleed into the canvas.
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(channels[3], &mask, 254, 255, gocv.ThresholdBinary)

	srcROI := rgb.Region(srcRect)
	defer srcROI.Close()
	maskROI := mask.Region(srcRect)
	defer maskROI.Close()
	dstROI := canvas.Region(dstRect)
	defer dstROI.Close()

	srcROI.CopyToWithMask(&dstROI, maskROI)
	return nil
}
