package imgio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"
)

// Load reads an image file (jpeg, png, or tiff) and returns it as a
// 3-channel BGR Mat. The caller owns the Mat and must Close it.
func Load(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	return ImageToMat(img), nil
}

// Save writes a Mat to disk; the format follows the file extension.
func Save(path string, mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("save image %s: empty image", path)
	}
	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("save image %s: write failed", path)
	}
	return nil
}
