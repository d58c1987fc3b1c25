package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81
)

// DoublePendulum is two point masses on rigid massless rods.
// State is (theta1, theta2, omega1, omega2), angles measured from the
// downward vertical.
type DoublePendulum struct {
	M1, M2  float64
	L1, L2  float64
	Gravity float64
}

func NewDoublePendulum() *DoublePendulum {
	return &DoublePendulum{
		M1: DefaultMass, M2: DefaultMass,
		L1: DefaultLength, L2: DefaultLength,
		Gravity: DefaultGravity,
	}
}

func (d *DoublePendulum) StateDim() int { return 4 }

func (d *DoublePendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)

	den1 := (m1+m2)*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	alpha1 := (m2*l1*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(theta2)*cosD +
		m2*l2*omega2*omega2*sinD -
		(m1+m2)*g*math.Sin(theta1)) / den1

	alpha2 := (-m2*l2*omega2*omega2*sinD*cosD +
		(m1+m2)*g*math.Sin(theta1)*cosD -
		(m1+m2)*l1*omega1*omega1*sinD -
		(m1+m2)*g*math.Sin(theta2)) / den2

	return dynamo.State{omega1, omega2, alpha1, alpha2}
}

func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := l1*l1*omega1*omega1 + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(theta1)
	y2 := y1 - l2*math.Cos(theta2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}

// Positions returns the cartesian bob positions for a state, origin at the
// pivot, y pointing up.
func (d *DoublePendulum) Positions(x dynamo.State) (x1, y1, x2, y2 float64) {
	x1 = d.L1 * math.Sin(x[0])
	y1 = -d.L1 * math.Cos(x[0])
	x2 = x1 + d.L2*math.Sin(x[1])
	y2 = y1 - d.L2*math.Cos(x[1])
	return
}

func (d *DoublePendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"m1":      d.M1,
		"m2":      d.M2,
		"l1":      d.L1,
		"l2":      d.L2,
		"gravity": d.Gravity,
	}
}

func (d *DoublePendulum) SetParam(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("param %s must be positive, got %f", name, value)
	}
	switch name {
	case "m1":
		d.M1 = value
	case "m2":
		d.M2 = value
	case "l1":
		d.L1 = value
	case "l2":
		d.L2 = value
	case "gravity":
		d.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Validate rejects non-physical parameters before a run starts.
func (d *DoublePendulum) Validate() error {
	for name, v := range d.GetParams() {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("param %s must be positive and finite, got %f", name, v)
		}
	}
	return nil
}
