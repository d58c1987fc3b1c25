package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// Colormap maps a normalized value in [0, 1] to a color.
type Colormap func(t float64) color.RGBA

type stop struct {
	t       float64
	r, g, b float64
}

// gradient builds a colormap by linear interpolation between stops.
// Stops must be ordered by t with t=0 first and t=1 last.
func gradient(stops []stop) Colormap {
	return func(t float64) color.RGBA {
		if math.IsNaN(t) {
			t = 0
		}
		t = clamp01(t)
		for i := 1; i < len(stops); i++ {
			if t <= stops[i].t {
				lo, hi := stops[i-1], stops[i]
				span := hi.t - lo.t
				f := 0.0
				if span > 0 {
					f = (t - lo.t) / span
				}
				return color.RGBA{
					R: uint8(lerp(lo.r, hi.r, f) * 255),
					G: uint8(lerp(lo.g, hi.g, f) * 255),
					B: uint8(lerp(lo.b, hi.b, f) * 255),
					A: 255,
				}
			}
		}
		last := stops[len(stops)-1]
		return color.RGBA{R: uint8(last.r * 255), G: uint8(last.g * 255), B: uint8(last.b * 255), A: 255}
	}
}

var colormaps = map[string]Colormap{
	// Dark red through orange to near-white, in the spirit of inferno.
	"fire": gradient([]stop{
		{0.00, 0.00, 0.00, 0.02},
		{0.25, 0.35, 0.05, 0.38},
		{0.50, 0.80, 0.20, 0.20},
		{0.75, 0.98, 0.65, 0.10},
		{1.00, 0.99, 0.98, 0.85},
	}),
	"ice": gradient([]stop{
		{0.00, 0.00, 0.01, 0.05},
		{0.35, 0.05, 0.15, 0.45},
		{0.70, 0.25, 0.55, 0.85},
		{1.00, 0.90, 0.98, 1.00},
	}),
	"gray": gradient([]stop{
		{0.00, 0.00, 0.00, 0.00},
		{1.00, 1.00, 1.00, 1.00},
	}),
	"hsv": func(t float64) color.RGBA {
		return hsv(clamp01(t), 1, 1)
	},
}

// LookupColormap returns the named colormap.
func LookupColormap(name string) (Colormap, error) {
	cm, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s (available: %v)", name, ColormapNames())
	}
	return cm, nil
}

func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
