// Command boardgen renders a printable QR calibration board image.
package main

import (
	"flag"
	"log"
	"os"

	"board-stitcher/internal/board"
	"board-stitcher/internal/imgio"
	"board-stitcher/internal/version"
	"board-stitcher/pkg/progress"
)

func main() {
	rows := flag.Int("rows", 5, "Board row count")
	cols := flag.Int("cols", 5, "Board column count")
	size := flag.Int("size", 40, "QR cell edge length in board pixels")
	border := flag.Int("border", 5, "Margin between and around cells in board pixels")
	out := flag.String("o", "board.png", "Output image path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("boardgen %s", version.String())

	geom, err := board.NewGeometry(*rows, *cols, *size, *border)
	if err != nil {
		log.Printf("Invalid board parameters: %v", err)
		os.Exit(1)
	}

	lastDecile := -1
	img, err := board.NewGenerator().Generate(geom, progress.Func(func(percent int) {
		if percent/10 > lastDecile {
			lastDecile = percent / 10
			log.Printf("Generating board: %d%%", percent)
		}
	}))
	if err != nil {
		log.Printf("Board generation failed: %v", err)
		os.Exit(1)
	}
	defer img.Close()

	if err := imgio.Save(*out, img); err != nil {
		log.Printf("Save failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Wrote %dx%d board (%d cells) to %s",
		geom.PixelWidth(), geom.PixelHeight(), geom.CellCount(), *out)
}
