package stitch

import (
	"math"

	"board-stitcher/pkg/geometry"
)

// WrappedBox is the axis-aligned bounding box of one warped sub-image in
// board/canvas coordinates. Derived, never stored.
type WrappedBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the horizontal extent.
func (b WrappedBox) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent.
func (b WrappedBox) Height() float64 {
	return b.Bottom - b.Top
}

// TopLeft returns the top-left corner.
func (b WrappedBox) TopLeft() geometry.Point2D {
	return geometry.Point2D{X: b.Left, Y: b.Top}
}

// IntBounds returns the pixel-aligned bounds: left/top floored,
// right/bottom ceiled.
func (b WrappedBox) IntBounds() (left, top, right, bottom int) {
	return int(math.Floor(b.Left)), int(math.Floor(b.Top)),
		int(math.Ceil(b.Right)), int(math.Ceil(b.Bottom))
}

// UnionIntBounds returns the pixel-aligned bounds of the union of the boxes.
// ok is false when boxes is empty.
func UnionIntBounds(boxes []WrappedBox) (left, top, right, bottom int, ok bool) {
	if len(boxes) == 0 {
		return 0, 0, 0, 0, false
	}
	left, top, right, bottom = boxes[0].IntBounds()
	for _, b := range boxes[1:] {
		l, t, r, bt := b.IntBounds()
		left = min(left, l)
		top = min(top, t)
		right = max(right, r)
		bottom = max(bottom, bt)
	}
	return left, top, right, bottom, true
}

// cornerBox projects the four corners of a width x height source image
// through h and returns their bounding box. The full warp and the box-only
// path both go through here so their boxes agree exactly.
func cornerBox(h geometry.Homography, width, height int) WrappedBox {
	w, ht := float64(width), float64(height)
	corners := [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: ht},
		{X: 0, Y: ht},
	}

	first := h.Apply(corners[0])
	box := WrappedBox{Left: first.X, Top: first.Y, Right: first.X, Bottom: first.Y}
	for _, c := range corners[1:] {
		p := h.Apply(c)
		box.Left = math.Min(box.Left, p.X)
		box.Top = math.Min(box.Top, p.Y)
		box.Right = math.Max(box.Right, p.X)
		box.Bottom = math.Max(box.Bottom, p.Y)
	}
	return box
}
