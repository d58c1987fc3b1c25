// Package sweep runs batches of pendulum simulations over a grid of
// initial conditions. The classic product is the flip map: for each pair
// of starting angles, the time until an arm first swings over the top.
// Chaotic regions show up as fine-grained structure in that map.
package sweep

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/physics"
)

// Grid describes a sweep over (theta1, theta2) initial angles, both arms
// starting at rest.
type Grid struct {
	Theta1Min, Theta1Max float64
	Theta2Min, Theta2Max float64
	Resolution           int

	Dt       float64
	Duration float64
}

func (g Grid) validate() error {
	if g.Resolution <= 1 {
		return fmt.Errorf("resolution must exceed 1, got %d", g.Resolution)
	}
	if g.Theta1Min >= g.Theta1Max || g.Theta2Min >= g.Theta2Max {
		return fmt.Errorf("degenerate angle ranges")
	}
	if g.Dt <= 0 || g.Duration <= 0 {
		return fmt.Errorf("dt and duration must be positive")
	}
	return nil
}

// Map holds sweep output in row-major order: cell (i, j) is row j of
// theta2 and column i of theta1. FlipTimes saturate at Duration for
// initial conditions that never flip within the run.
type Map struct {
	Resolution int
	Duration   float64
	FlipTimes  []float64
}

func (m *Map) At(i, j int) float64 {
	return m.FlipTimes[j*m.Resolution+i]
}

// FlipMap sweeps the grid and records the first time either arm crosses
// the inverted position. Rows run in parallel; each worker carries its
// own integrator, and each cell writes a disjoint slot, so the result is
// deterministic.
func FlipMap(ctx context.Context, dp *physics.DoublePendulum, grid Grid) (*Map, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	if err := dp.Validate(); err != nil {
		return nil, err
	}

	res := grid.Resolution
	m := &Map{
		Resolution: res,
		Duration:   grid.Duration,
		FlipTimes:  make([]float64, res*res),
	}

	d1 := (grid.Theta1Max - grid.Theta1Min) / float64(res-1)
	d2 := (grid.Theta2Max - grid.Theta2Min) / float64(res-1)

	dynamo.ParallelFor(res, 1, func(start, end int) {
		integ := integrators.NewRK4()
		for j := start; j < end; j++ {
			if ctx.Err() != nil {
				return
			}
			theta2 := grid.Theta2Min + float64(j)*d2
			row := m.FlipTimes[j*res : (j+1)*res]
			for i := 0; i < res; i++ {
				theta1 := grid.Theta1Min + float64(i)*d1
				row[i] = flipTime(dp, integ, theta1, theta2, grid.Dt, grid.Duration)
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// flipTime integrates one initial condition until an arm passes through
// the vertical, or the time budget runs out.
func flipTime(dp *physics.DoublePendulum, integ dynamo.Integrator, theta1, theta2, dt, duration float64) float64 {
	x := dynamo.State{theta1, theta2, 0, 0}
	t := 0.0

	for t < duration {
		x = integ.Step(dp, x, t, dt)
		t += dt

		if !x.IsValid() {
			return t
		}
		if math.Abs(x[0]) > math.Pi || math.Abs(x[1]) > math.Pi {
			return t
		}
	}

	return duration
}
