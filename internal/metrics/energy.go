// Package metrics implements per-step observers attached to simulation runs.
package metrics

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// MeanEnergy averages the system's total mechanical energy over a run.
type MeanEnergy struct {
	dyn     dynamo.Hamiltonian
	samples int
	total   float64
}

func NewMeanEnergy(dyn dynamo.Hamiltonian) *MeanEnergy {
	return &MeanEnergy{dyn: dyn}
}

func (e *MeanEnergy) Name() string { return "mean_energy" }

func (e *MeanEnergy) Observe(x dynamo.State, t float64) {
	e.total += e.dyn.Energy(x)
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift tracks the maximum relative deviation from the initial energy.
type EnergyDrift struct {
	dyn      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{dyn: dyn}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
