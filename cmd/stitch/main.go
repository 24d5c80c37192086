// Command stitch calibrates a folder of overlapping sub-images against a QR
// calibration board and composites them into one image. Calibration comes
// either from QR detection across the folder or from a previously saved
// calibration file.
package main

import (
	"errors"
	"flag"
	"image"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"board-stitcher/internal/calib"
	"board-stitcher/internal/imgio"
	"board-stitcher/internal/stitch"
	"board-stitcher/internal/task"
	"board-stitcher/internal/version"
)

func main() {
	dir := flag.String("dir", "", "Folder of sub-images")
	calibIn := flag.String("calib", "", "Load calibration from file instead of detecting QR codes")
	calibOut := flag.String("save-calib", "", "Save the calibration result to this file")
	out := flag.String("o", "stitched.jpg", "Output image path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("stitch %s", version.String())

	if *dir == "" {
		log.Println("Usage: stitch -dir <folder> [-calib <file>] [-save-calib <file>] [-o <image>]")
		os.Exit(1)
	}

	files, err := listImages(*dir)
	if err != nil {
		log.Printf("List images: %v", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Printf("No images found in %s", *dir)
		os.Exit(1)
	}

	runner := task.NewRunner()

	// Ctrl-C stops between images, never mid-warp.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		log.Println("Interrupted, stopping after the current image")
		runner.Stop()
	}()

	var (
		stitcher *stitch.Stitcher
		result   *calib.Result
		sizes    map[string]image.Point
		jobErr   error
	)
	if err := runner.TrySubmit("calibrate", func() {
		stitcher, result, sizes, jobErr = calibrate(runner, files, *calibIn)
	}); err != nil {
		log.Printf("Submit calibrate: %v", err)
		os.Exit(1)
	}
	runner.Wait()
	if jobErr != nil {
		log.Printf("Calibration failed: %v", jobErr)
		os.Exit(1)
	}

	if *calibOut != "" {
		if err := result.Save(*calibOut); err != nil {
			log.Printf("Save calibration: %v", err)
		} else {
			log.Printf("Saved calibration result to %s", *calibOut)
		}
	}

	if err := runner.TrySubmit("stitch", func() {
		jobErr = stitchAndSave(runner, stitcher, result, sizes, files, *out)
	}); err != nil {
		log.Printf("Submit stitch: %v", err)
		os.Exit(1)
	}
	runner.Wait()
	if jobErr != nil {
		log.Printf("Stitching failed: %v", jobErr)
		os.Exit(1)
	}
}

// listImages returns the image files in dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// calibrate builds the stitcher and the matched-point set, either from a
// saved calibration file or by detecting QR codes across the folder. In the
// detection path it also records each image's pixel size so the later box
// pass needs no second load. Per-image failures are logged and skipped.
func calibrate(runner *task.Runner, files []string, calibPath string) (*stitch.Stitcher, *calib.Result, map[string]image.Point, error) {
	if calibPath != "" {
		result, err := calib.LoadFromFile(calibPath)
		if err != nil {
			return nil, nil, nil, err
		}
		stitcher, err := stitch.New(result.Board())
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("Loaded calibration for %d images from %s",
			len(result.MatchedImageIDs()), calibPath)
		return stitcher, result, nil, nil
	}

	// Bind the board from the first image with a decodable cell.
	var stitcher *stitch.Stitcher
	for _, path := range files {
		img, err := imgio.Load(path)
		if err != nil {
			log.Printf("Load %s: %v", path, err)
			continue
		}
		s, err := stitch.FromQRImage(img)
		img.Close()
		if errors.Is(err, stitch.ErrNoBoardDetected) {
			continue
		}
		if err != nil {
			return nil, nil, nil, err
		}
		stitcher = s
		log.Printf("Board detected in %s: %+v", filepath.Base(path), s.Board())
		break
	}
	if stitcher == nil {
		return nil, nil, nil, stitch.ErrNoBoardDetected
	}

	result := calib.NewResult(stitcher.Board())
	sizes := make(map[string]image.Point, len(files))
	for _, path := range files {
		select {
		case <-runner.Stopped():
			return nil, nil, nil, errors.New("calibration stopped")
		default:
		}

		imgID := filepath.Base(path)
		img, err := imgio.Load(path)
		if err != nil {
			log.Printf("Load %s: %v", path, err)
			continue
		}
		sizes[imgID] = image.Pt(img.Cols(), img.Rows())
		points := stitcher.Match(img, imgID)
		img.Close()
		if len(points) == 0 {
			log.Printf("Match %s: no calibration cells, skipped", imgID)
			continue
		}
		log.Printf("Match %s: %d points", imgID, len(points))
		for _, p := range points {
			result.AddMatchedPoint(p)
		}
	}
	return stitcher, result, sizes, nil
}

// stitchAndSave warps every image with three or more matched points into
// board space and composites them, last writer wins. sizes holds image pixel
// dimensions recorded during calibration; nil when calibration came from a
// file.
func stitchAndSave(runner *task.Runner, stitcher *stitch.Stitcher, result *calib.Result, sizes map[string]image.Point, files []string, outPath string) error {
	paths := make(map[string]string, len(files))
	for _, path := range files {
		paths[filepath.Base(path)] = path
	}

	var ids []string
	for _, id := range result.MatchedImageIDs() {
		if len(result.MatchedPoints(id)) >= 3 && paths[id] != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return errors.New("no image has the 3 matched points stitching needs")
	}

	scale := result.MeanSubImageScale()
	stitcher.SetScale(scale)
	log.Printf("Mean sub-image scale: %.6f", scale)

	// Cheap box pass first: corner math on the dimensions recorded during
	// calibration, no pixels loaded or warped.
	if sizes != nil {
		var boxes []stitch.WrappedBox
		for _, id := range ids {
			sz, ok := sizes[id]
			if !ok {
				continue
			}
			box, err := stitcher.CalcWrappedPartialBox(sz.X, sz.Y, result.MatchedPoints(id))
			if err != nil {
				log.Printf("Box %s: %v", id, err)
				continue
			}
			boxes = append(boxes, box)
		}
		if left, top, right, bottom, ok := stitch.UnionIntBounds(boxes); ok {
			log.Printf("Canvas extent: %dx%d", right-left, bottom-top)
		}
	}

	var partials []stitch.Partial
	defer func() {
		for i := range partials {
			partials[i].Image.Close()
		}
	}()
	for i, id := range ids {
		select {
		case <-runner.Stopped():
			return errors.New("stitching stopped")
		default:
		}

		img, err := imgio.Load(paths[id])
		if err != nil {
			log.Printf("Load %s: %v", id, err)
			continue
		}
		warped, box, err := stitcher.GenWrappedPartial(img, result.MatchedPoints(id))
		img.Close()
		if err != nil {
			log.Printf("Warp %s: %v, skipped", id, err)
			continue
		}
		partials = append(partials, stitch.Partial{Image: warped, Box: box})
		log.Printf("Warped %s (%d/%d), box %.1f,%.1f - %.1f,%.1f",
			id, i+1, len(ids), box.Left, box.Top, box.Right, box.Bottom)
	}
	if len(partials) == 0 {
		return errors.New("every image failed to warp")
	}

	canvas, err := stitch.Composite(partials)
	if err != nil {
		return err
	}
	defer canvas.Close()

	if err := imgio.Save(outPath, canvas); err != nil {
		return err
	}
	log.Printf("Wrote %dx%d composite of %d images to %s",
		canvas.Cols(), canvas.Rows(), len(partials), outPath)
	return nil
}
