package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates the system from x0 over cfg.Duration. The returned Result
// holds the full trajectory. Invalid states (NaN/Inf) abort the run with a
// SimulationError wrapping ErrUnstable; the partial trajectory is still
// returned alongside the error.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: got %d, system wants %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.computeEnergy(x)

	for step := 0; ; step++ {
		if cfg.Adaptive {
			// Adaptive runs cover Duration in wall-clock-of-simulation
			// terms, clamping the final step so t lands on the end time.
			remaining := cfg.Duration - t
			if remaining <= cfg.MinDt {
				break
			}
			if dt > remaining {
				dt = remaining
			}
		} else if step >= steps {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		var newX State
		advanced := dt

		if cfg.Adaptive {
			var used, next float64
			var stepErr error
			newX, used, next, stepErr = s.adaptiveStep(x, t, dt, cfg)
			if stepErr != nil {
				return result, &SimulationError{Step: step, Time: t, State: x, Wrapped: stepErr}
			}
			advanced = used
			dt = next
		} else {
			newX = s.integrator.Step(s.dyn, x, t, dt)
		}

		if cfg.ValidateState && !newX.IsValid() {
			s.finish(result, x, initialEnergy)
			return result, &SimulationError{Step: step, Time: t, State: newX, Wrapped: ErrUnstable}
		}

		x = newX
		t += advanced
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	s.finish(result, x, initialEnergy)
	return result, nil
}

func (s *Simulator) finish(result *Result, x State, initialEnergy float64) {
	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

// adaptiveStep advances x by one error-controlled step, returning the
// new state, the step size actually taken, and the suggested next size.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, used, next, err := adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, dt, err
		}
		if used < cfg.MinDt || next < cfg.MinDt {
			return nil, 0, dt, ErrStepTooSmall
		}
		if next > cfg.MaxDt {
			next = cfg.MaxDt
		}
		return newX, used, next, nil
	}

	// Step doubling for non-adaptive integrators.
	x1 := s.integrator.Step(s.dyn, x, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance {
		if dt/2 < cfg.MinDt {
			return nil, 0, dt, ErrStepTooSmall
		}
		return s.adaptiveStep(x, t, dt/2, cfg)
	}

	next := dt
	if err < cfg.Tolerance/10 && dt < cfg.MaxDt {
		next = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, next, nil
}

// RunWithCallback steps the simulation, invoking callback after each step.
// Returning false from the callback stops the run cleanly.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		x = s.integrator.Step(s.dyn, x, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Time: t, State: x, Wrapped: ErrUnstable}
		}
	}

	return nil
}
