// Package imgio handles image loading, saving, and conversion between Go
// images and OpenCV Mats. Engine code works in BGR Mat space; conversion in
// and out happens only at the edges.
package imgio

import (
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// ImageToMat converts a Go image.Image to a 3-channel BGR gocv.Mat.
// Rows are converted in parallel stripes.
func ImageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				for x := 0; x < width; x++ {
					r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
					// OpenCV uses BGR order
					mat.SetUCharAt(y, x*3+0, uint8(b>>8))
					mat.SetUCharAt(y, x*3+1, uint8(g>>8))
					mat.SetUCharAt(y, x*3+2, uint8(r>>8))
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat
}

// MatToImage converts a 3-channel BGR or 4-channel BGRA gocv.Mat to an
// image.RGBA. For 3-channel input the alpha channel is set to 255.
func MatToImage(mat gocv.Mat) *image.RGBA {
	h := mat.Rows()
	w := mat.Cols()
	ch := mat.Channels()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := img.Stride

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (h + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for worker := 0; worker < numWorkers; worker++ {
		startY := worker * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		if startY >= h {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				rowOffset := y * stride
				for x := 0; x < w; x++ {
					pixOffset := rowOffset + x*4
					img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*ch+2) // R
					img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*ch+1) // G
					img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*ch+0) // B
					if ch == 4 {
						img.Pix[pixOffset+3] = mat.GetUCharAt(y, x*ch+3)
					} else {
						img.Pix[pixOffset+3] = 255
					}
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return img
}
