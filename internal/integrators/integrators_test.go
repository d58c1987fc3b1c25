package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// harmonic oscillator x'' = -x, exact solution x(t) = cos(t), v(t) = -sin(t)
type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

func integrate(integ dynamo.Integrator, x0 dynamo.State, dt, duration float64) dynamo.State {
	x := x0.Clone()
	t := 0.0
	for t < duration {
		x = integ.Step(&oscillator{}, x, t, dt)
		t += dt
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	// One full period should return to the initial state
	steps := 1000
	dt := 2 * math.Pi / float64(steps)

	x := dynamo.State{1, 0}
	integ := NewRK4()
	for i := 0; i < steps; i++ {
		x = integ.Step(&oscillator{}, x, float64(i)*dt, dt)
	}

	if math.Abs(x[0]-1) > 1e-6 {
		t.Errorf("expected x=1 after one period, got %f", x[0])
	}
	if math.Abs(x[1]) > 1e-6 {
		t.Errorf("expected v=0 after one period, got %f", x[1])
	}
}

func TestEulerConverges(t *testing.T) {
	// First order: halving dt should roughly halve the error
	errAt := func(dt float64) float64 {
		x := integrate(NewEuler(), dynamo.State{1, 0}, dt, 1.0)
		return math.Abs(x[0] - math.Cos(1.0))
	}

	e1 := errAt(0.01)
	e2 := errAt(0.005)

	if e2 >= e1 {
		t.Errorf("expected smaller error at smaller dt: %e vs %e", e1, e2)
	}
	ratio := e1 / e2
	if ratio < 1.5 || ratio > 3.0 {
		t.Errorf("expected roughly first-order convergence, got ratio %f", ratio)
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	dt := 0.01
	exact := math.Cos(2.0)

	rk4 := integrate(NewRK4(), dynamo.State{1, 0}, dt, 2.0)
	euler := integrate(NewEuler(), dynamo.State{1, 0}, dt, 2.0)

	errRK4 := math.Abs(rk4[0] - exact)
	errEuler := math.Abs(euler[0] - exact)

	if errRK4 >= errEuler {
		t.Errorf("expected rk4 error (%e) below euler error (%e)", errRK4, errEuler)
	}
}

func TestRK45Step(t *testing.T) {
	integ := NewRK45()

	x := integ.Step(&oscillator{}, dynamo.State{1, 0}, 0, 0.1)
	if !x.IsValid() {
		t.Fatal("rk45 produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(0.1)) > 1e-6 {
		t.Errorf("expected x~%f after one step, got %f", math.Cos(0.1), x[0])
	}
}

func TestRK45StepAdaptive(t *testing.T) {
	integ := NewRK45()

	x, used, next, err := integ.StepAdaptive(&oscillator{}, dynamo.State{1, 0}, 0, 0.1, 1e-8)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if !x.IsValid() {
		t.Fatal("adaptive step produced invalid state")
	}
	if used <= 0 || next <= 0 {
		t.Errorf("expected positive step sizes, got used=%f next=%f", used, next)
	}
	if math.Abs(x[0]-math.Cos(used)) > 1e-6 {
		t.Errorf("state does not match the step actually taken: x=%f for dt=%f", x[0], used)
	}
}

func TestRK45StepAdaptiveRejectsLargeStep(t *testing.T) {
	integ := NewRK45()

	// A quarter-period step at tight tolerance must be rejected and
	// retried smaller, and the accepted step must satisfy the solution.
	x, used, _, err := integ.StepAdaptive(&oscillator{}, dynamo.State{1, 0}, 0, math.Pi/2, 1e-10)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if used >= math.Pi/2 {
		t.Fatalf("expected shrunken step, got used=%f", used)
	}
	if math.Abs(x[0]-math.Cos(used)) > 1e-8 {
		t.Errorf("accepted step misses exact solution: x=%f, want %f", x[0], math.Cos(used))
	}
	if math.Abs(x[1]+math.Sin(used)) > 1e-8 {
		t.Errorf("accepted step misses exact velocity: v=%f, want %f", x[1], -math.Sin(used))
	}
}

func TestRK45AdaptiveRun(t *testing.T) {
	sim := dynamo.New(&oscillator{}, NewRK45())

	cfg := dynamo.Config{
		Dt:        0.1,
		Duration:  2.0,
		Adaptive:  true,
		Tolerance: 1e-8,
		MaxDt:     0.5,
		MinDt:     1e-10,
	}

	result, err := sim.Run(context.Background(), dynamo.State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("adaptive run failed: %v", err)
	}

	finalT := result.Times[len(result.Times)-1]
	if math.Abs(finalT-2.0) > 1e-6 {
		t.Errorf("expected run to end at t=2.0, got %f", finalT)
	}

	final := result.States[len(result.States)-1]
	if math.Abs(final[0]-math.Cos(finalT)) > 1e-5 {
		t.Errorf("expected x~%f at t=%f, got %f", math.Cos(finalT), finalT, final[0])
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("factory %s failed: %v", name, err)
		}
		if integ == nil {
			t.Fatalf("factory %s returned nil", name)
		}
	}

	if _, err := New("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	names := Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestIntegratorsPreserveInput(t *testing.T) {
	// Step must not mutate the input state
	for _, name := range Names() {
		integ, _ := New(name)
		x := dynamo.State{1, 0}
		integ.Step(&oscillator{}, x, 0, 0.1)
		if x[0] != 1 || x[1] != 0 {
			t.Errorf("%s mutated input state: %v", name, x)
		}
	}
}
