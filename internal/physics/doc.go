// Package physics implements the dynamical systems visualized by chaoslab.
//
// The double pendulum is the chaotic showcase; the single pendulum is kept
// as a regular (non-chaotic) system for side-by-side comparison. Both
// implement dynamo.System and dynamo.Hamiltonian, so energy drift is
// tracked for free by the simulator.
package physics
