package physics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	dp := NewDoublePendulum()

	// At rest hanging straight down
	x := dynamo.State{0, 0, 0, 0}
	dx := dp.Derive(x, 0)

	for i, v := range dx {
		if math.Abs(v) > 1e-10 {
			t.Errorf("expected zero derivative at equilibrium, got dx[%d]=%f", i, v)
		}
	}
}

func TestDoublePendulumDimensions(t *testing.T) {
	dp := NewDoublePendulum()

	if dp.StateDim() != 4 {
		t.Errorf("expected state dim 4, got %d", dp.StateDim())
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	dp := NewDoublePendulum()

	// Mirrored initial conditions should give opposite accelerations
	x1 := dynamo.State{0.1, 0.1, 0, 0}
	x2 := dynamo.State{-0.1, -0.1, 0, 0}

	dx1 := dp.Derive(x1, 0)
	dx2 := dp.Derive(x2, 0)

	if math.Abs(dx1[2]+dx2[2]) > 1e-6 {
		t.Errorf("expected symmetric alpha1: %f vs %f", dx1[2], dx2[2])
	}
	if math.Abs(dx1[3]+dx2[3]) > 1e-6 {
		t.Errorf("expected symmetric alpha2: %f vs %f", dx1[3], dx2[3])
	}
}

func TestDoublePendulumEnergyAtRest(t *testing.T) {
	dp := NewDoublePendulum()

	// Hanging at rest is the potential minimum: -g(m1*l1 + m2*(l1+l2))
	e := dp.Energy(dynamo.State{0, 0, 0, 0})
	want := -dp.Gravity * (dp.M1*dp.L1 + dp.M2*(dp.L1+dp.L2))
	if math.Abs(e-want) > 1e-10 {
		t.Errorf("expected rest energy %f, got %f", want, e)
	}

	// Any other configuration at rest has higher energy
	if dp.Energy(dynamo.State{1.0, 0.5, 0, 0}) <= e {
		t.Error("expected displaced configuration to have higher energy")
	}
}

func TestDoublePendulumPositions(t *testing.T) {
	dp := NewDoublePendulum()
	dp.L1, dp.L2 = 2.0, 1.0

	// Both arms horizontal to the right
	x1, y1, x2, y2 := dp.Positions(dynamo.State{math.Pi / 2, math.Pi / 2, 0, 0})

	if math.Abs(x1-2.0) > 1e-10 || math.Abs(y1) > 1e-10 {
		t.Errorf("expected first bob at (2, 0), got (%f, %f)", x1, y1)
	}
	if math.Abs(x2-3.0) > 1e-10 || math.Abs(y2) > 1e-10 {
		t.Errorf("expected second bob at (3, 0), got (%f, %f)", x2, y2)
	}

	// Hanging down
	_, y1, _, y2 = dp.Positions(dynamo.State{0, 0, 0, 0})
	if math.Abs(y1+2.0) > 1e-10 || math.Abs(y2+3.0) > 1e-10 {
		t.Errorf("expected bobs at y=-2, y=-3, got %f, %f", y1, y2)
	}
}

func TestDoublePendulumParams(t *testing.T) {
	dp := NewDoublePendulum()

	if err := dp.SetParam("m1", 2.5); err != nil {
		t.Fatalf("set m1 failed: %v", err)
	}
	if dp.M1 != 2.5 {
		t.Errorf("expected m1=2.5, got %f", dp.M1)
	}

	if err := dp.SetParam("m1", -1.0); err == nil {
		t.Error("expected error for negative mass")
	}
	if err := dp.SetParam("bogus", 1.0); err == nil {
		t.Error("expected error for unknown param")
	}

	params := dp.GetParams()
	for _, name := range []string{"m1", "m2", "l1", "l2", "gravity"} {
		if _, ok := params[name]; !ok {
			t.Errorf("missing param %s", name)
		}
	}
}

func TestDoublePendulumEnergyConservation(t *testing.T) {
	dp := NewDoublePendulum()
	sim := dynamo.New(dp, integrators.NewRK4())

	cfg := dynamo.DefaultConfig()
	cfg.Dt = 0.001
	cfg.Duration = 5.0

	result, err := sim.Run(context.Background(), dynamo.State{1.5, 1.5, 0, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// RK4 at small dt over a short horizon keeps relative drift tiny even
	// on a chaotic trajectory
	if result.EnergyDrift > 1e-6 {
		t.Errorf("expected relative energy drift below 1e-6, got %e", result.EnergyDrift)
	}

	e0 := dp.Energy(result.States[0])
	eN := dp.Energy(result.States[len(result.States)-1])
	if math.Abs(eN-e0)/math.Abs(e0) > 1e-6 {
		t.Errorf("energy moved from %f to %f", e0, eN)
	}
}

func TestDoublePendulumEquilibriumRun(t *testing.T) {
	dp := NewDoublePendulum()
	sim := dynamo.New(dp, integrators.NewRK4())

	cfg := dynamo.DefaultConfig()
	cfg.Dt = 0.01
	cfg.Duration = 2.0

	result, err := sim.Run(context.Background(), dynamo.State{0, 0, 0, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Hanging at rest is a fixed point: every sampled state stays there
	for i, s := range result.States {
		for j, v := range s {
			if math.Abs(v) > 1e-12 {
				t.Fatalf("state left equilibrium at sample %d: x[%d]=%e", i, j, v)
			}
		}
	}
}

func TestDoublePendulumDeterministicRun(t *testing.T) {
	run := func() *dynamo.Result {
		dp := NewDoublePendulum()
		sim := dynamo.New(dp, integrators.NewRK4())
		cfg := dynamo.DefaultConfig()
		cfg.Dt = 0.005
		cfg.Duration = 3.0
		result, err := sim.Run(context.Background(), dynamo.State{3.0, 3.0, 0, 0}, cfg)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return result
	}

	a := run()
	b := run()

	if len(a.States) != len(b.States) {
		t.Fatalf("trajectory lengths differ: %d vs %d", len(a.States), len(b.States))
	}
	for i := range a.States {
		for j := range a.States[i] {
			if a.States[i][j] != b.States[i][j] {
				t.Fatalf("trajectories diverge at sample %d component %d", i, j)
			}
		}
	}
}

func TestDoublePendulumValidate(t *testing.T) {
	dp := NewDoublePendulum()
	if err := dp.Validate(); err != nil {
		t.Errorf("default pendulum should validate: %v", err)
	}

	dp.L2 = math.NaN()
	if err := dp.Validate(); err == nil {
		t.Error("expected error for NaN length")
	}
}
