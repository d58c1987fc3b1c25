// Package render turns chaoslab data products into visual artifacts:
// color-mapped PNG images for escape-count fields, gonum/plot PNG charts
// and animated GIFs for pendulum trajectories, and SVG path exports.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/san-kum/chaoslab/internal/fractal"
)

// FieldImage renders an escape-count field as a color-mapped image.
// Counts are normalized by MaxIter; interior points are painted black
// so the set itself stays visible against any colormap.
func FieldImage(f *fractal.Field, cmap Colormap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.Interior(x, y) {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			t := f.At(x, y) / float64(f.MaxIter)
			img.SetRGBA(x, y, cmap(t))
		}
	}

	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	return nil
}
