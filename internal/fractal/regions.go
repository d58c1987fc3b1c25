package fractal

import "sort"

// Landmark regions of the Mandelbrot set, usable as render presets.
var regions = map[string]Plane{
	// Full set with a little margin, matching the classic textbook framing.
	"overview": {RealMin: -2.0, RealMax: 0.5, ImagMin: -1.2, ImagMax: 1.2},

	// Seahorse Valley: dense filaments between the cardioid and main bulb.
	"seahorse": {RealMin: -0.80, RealMax: -0.70, ImagMin: 0.05, ImagMax: 0.15},

	// Elephant Valley: trunk-like tendrils east of the cardioid.
	"elephant": {RealMin: 0.25, RealMax: 0.35, ImagMin: -0.05, ImagMax: 0.05},

	// Self-similar Mandelbrot copy on the western antenna.
	"minibrot": {RealMin: -1.80, RealMax: -1.72, ImagMin: -0.04, ImagMax: 0.04},

	// Tight spiral arms around a deep minibrot.
	"spiral": {RealMin: -0.7435, RealMax: -0.7420, ImagMin: 0.1310, ImagMax: 0.1325},
}

// Region looks up a named landmark.
func Region(name string) (Plane, bool) {
	p, ok := regions[name]
	return p, ok
}

// RegionNames lists the landmark presets in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
