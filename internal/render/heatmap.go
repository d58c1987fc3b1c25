package render

import (
	"fmt"
	"image"
)

// HeatmapImage color-maps a row-major scalar grid. Values are normalized
// by vmax; cells at or above vmax are painted with the top of the map.
func HeatmapImage(values []float64, width, height int, vmax float64, cmap Colormap) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(values) != width*height {
		return nil, fmt.Errorf("heatmap shape mismatch: %d values for %dx%d", len(values), width, height)
	}
	if vmax <= 0 {
		return nil, fmt.Errorf("vmax must be positive, got %f", vmax)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := values[y*width+x] / vmax
			img.SetRGBA(x, y, cmap(t))
		}
	}
	return img, nil
}
