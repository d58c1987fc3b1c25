package physics

import (
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()

	dx := p.Derive(dynamo.State{0, 0}, 0)
	if math.Abs(dx[0]) > 1e-10 || math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero derivative at equilibrium, got %v", dx)
	}
}

func TestPendulumRestoringForce(t *testing.T) {
	p := NewPendulum()

	// Displaced right, gravity pulls back left
	dx := p.Derive(dynamo.State{0.5, 0}, 0)
	if dx[1] >= 0 {
		t.Errorf("expected negative angular acceleration, got %f", dx[1])
	}
}

func TestPendulumDamping(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0.5

	// Damping opposes motion even at the bottom
	dx := p.Derive(dynamo.State{0, 1.0}, 0)
	if dx[1] >= 0 {
		t.Errorf("expected damping to decelerate, got alpha=%f", dx[1])
	}
}

func TestPendulumEnergy(t *testing.T) {
	p := NewPendulum()

	if e := p.Energy(dynamo.State{0, 0}); math.Abs(e) > 1e-10 {
		t.Errorf("expected zero energy at rest, got %f", e)
	}

	// Inverted pendulum at rest: pe = 2*m*g*l
	e := p.Energy(dynamo.State{math.Pi, 0})
	want := 2 * p.Mass * p.Gravity * p.Length
	if math.Abs(e-want) > 1e-10 {
		t.Errorf("expected energy %f inverted, got %f", want, e)
	}
}
