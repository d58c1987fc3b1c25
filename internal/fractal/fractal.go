// Package fractal evaluates escape-time fractals over a complex-plane grid.
//
// The only fractal implemented is the Mandelbrot set: for each grid point c
// the recurrence z <- z^2 + c is iterated from z = 0, and the iteration at
// which |z| first exceeds the escape radius is recorded. Interior points
// saturate at the configured maximum.
package fractal

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// EscapeRadius is the standard Mandelbrot bailout: once |z| > 2 the orbit
// is guaranteed to diverge.
const EscapeRadius = 2.0

// Plane is a rectangular window of the complex plane.
type Plane struct {
	RealMin, RealMax float64
	ImagMin, ImagMax float64
}

// PlaneAround builds a square window of side 3/zoom centered on (re, im).
func PlaneAround(re, im, zoom float64) Plane {
	half := 1.5 / zoom
	return Plane{
		RealMin: re - half,
		RealMax: re + half,
		ImagMin: im - half,
		ImagMax: im + half,
	}
}

func (p Plane) validate() error {
	for _, v := range []float64{p.RealMin, p.RealMax, p.ImagMin, p.ImagMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("plane bounds must be finite")
		}
	}
	if p.RealMin >= p.RealMax {
		return fmt.Errorf("degenerate real bounds: [%f, %f]", p.RealMin, p.RealMax)
	}
	if p.ImagMin >= p.ImagMax {
		return fmt.Errorf("degenerate imaginary bounds: [%f, %f]", p.ImagMin, p.ImagMax)
	}
	return nil
}

// Params fully describes one render request. Immutable once evaluated.
type Params struct {
	Plane   Plane
	Width   int
	Height  int
	MaxIter int

	// Smooth records fractional escape counts for continuous coloring.
	Smooth bool
}

func (p Params) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", p.MaxIter)
	}
	return p.Plane.validate()
}

// Field is an escape-count grid. Counts is row-major (y*Width + x); values
// lie in [0, MaxIter], with MaxIter marking interior points.
type Field struct {
	Width, Height int
	MaxIter       int
	Counts        []float64
}

func (f *Field) At(x, y int) float64 {
	return f.Counts[y*f.Width+x]
}

// Interior reports whether the sample at (x, y) never escaped.
func (f *Field) Interior(x, y int) bool {
	return f.At(x, y) >= float64(f.MaxIter)
}

// Evaluate computes the escape-count field for the given request.
//
// Rows are evaluated in parallel but each row writes a disjoint slice of
// Counts, so the result is bit-identical across runs and worker counts.
func Evaluate(p Params) (*Field, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	f := &Field{
		Width:   p.Width,
		Height:  p.Height,
		MaxIter: p.MaxIter,
		Counts:  make([]float64, p.Width*p.Height),
	}

	dRe, dIm := 0.0, 0.0
	if p.Width > 1 {
		dRe = (p.Plane.RealMax - p.Plane.RealMin) / float64(p.Width-1)
	}
	if p.Height > 1 {
		dIm = (p.Plane.ImagMax - p.Plane.ImagMin) / float64(p.Height-1)
	}

	dynamo.ParallelFor(p.Height, 8, func(start, end int) {
		for y := start; y < end; y++ {
			im := p.Plane.ImagMin + float64(y)*dIm
			row := f.Counts[y*p.Width : (y+1)*p.Width]
			for x := 0; x < p.Width; x++ {
				re := p.Plane.RealMin + float64(x)*dRe
				if p.Smooth {
					row[x] = escapeCountSmooth(complex(re, im), p.MaxIter)
				} else {
					row[x] = float64(escapeCount(complex(re, im), p.MaxIter))
				}
			}
		}
	})

	return f, nil
}

// escapeCount returns the minimal n >= 1 with |z_n| > EscapeRadius, or
// maxIter if the orbit stays bounded that long.
func escapeCount(c complex128, maxIter int) int {
	var zr, zi float64
	for n := 1; n <= maxIter; n++ {
		zr, zi = zr*zr-zi*zi+real(c), 2*zr*zi+imag(c)
		if zr*zr+zi*zi > EscapeRadius*EscapeRadius {
			return n
		}
	}
	return maxIter
}

// escapeCountSmooth is escapeCount with the usual logarithmic correction
// mu = n + 1 - log(log|z|)/log 2, which removes the integer banding.
func escapeCountSmooth(c complex128, maxIter int) float64 {
	z := complex(0, 0)
	for n := 1; n <= maxIter; n++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > EscapeRadius*EscapeRadius {
			mu := float64(n) + 1 - math.Log(math.Log(cmplx.Abs(z)))/math.Ln2
			if mu < 0 {
				mu = 0
			}
			return mu
		}
	}
	return float64(maxIter)
}
