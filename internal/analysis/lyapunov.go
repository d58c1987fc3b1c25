// Package analysis provides chaos diagnostics for simulated trajectories:
// Lyapunov exponent estimation, twin-trajectory separation, and frequency
// analysis via FFT.
package analysis

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Two trajectories start perturbation apart in the first state component;
// after every step the growth of their separation is logged and the
// perturbed trajectory is rescaled back to the initial distance, keeping
// the estimate in the linear regime.
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || perturbation <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation

	d0 := perturbation
	t := 0.0

	sumLog := 0.0
	count := 0

	for t < duration {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if sep <= 0 {
			continue
		}

		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

// Separation runs twin trajectories offset by eps in the first component
// and records their distance at each step. This is the raw material of the
// sensitive-dependence demo.
func Separation(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	eps, dt, duration float64,
) (times, sep []float64) {
	steps := int(duration / dt)
	times = make([]float64, 0, steps)
	sep = make([]float64, 0, steps)

	x := x0.Clone()
	xp := x0.Clone()
	if len(xp) > 0 {
		xp[0] += eps
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		t += dt

		times = append(times, t)
		sep = append(sep, xp.Sub(x).Norm())
	}

	return times, sep
}
