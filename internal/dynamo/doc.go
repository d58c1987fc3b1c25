// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepping interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	dyn := physics.NewDoublePendulum()
//	integ := integrators.NewRK4()
//	sim := dynamo.New(dyn, integ)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Run separate Simulator values
// for concurrent simulations; systems and integrators keep per-instance
// scratch state.
package dynamo
