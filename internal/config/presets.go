package config

import "sort"

// Pendulum presets span the range from near-linear motion to full chaos.
var pendulumPresets = map[string]PendulumConfig{
	"gentle": {
		Theta1: 0.3, Theta2: 0.3,
		M1: 1, M2: 1, L1: 1, L2: 1, Gravity: 9.81,
		Dt: 0.01, Duration: 30.0, Integrator: "rk4",
	},
	"symmetric": {
		Theta1: 1.5, Theta2: 1.5,
		M1: 1, M2: 1, L1: 1, L2: 1, Gravity: 9.81,
		Dt: 0.005, Duration: 30.0, Integrator: "rk4",
	},
	"chaos": {
		Theta1: 3.0, Theta2: 3.0,
		M1: 1, M2: 1, L1: 1, L2: 1, Gravity: 9.81,
		Dt: 0.005, Duration: 60.0, Integrator: "rk4",
	},
	"unbalanced": {
		Theta1: 2.0, Theta2: -1.0,
		M1: 2, M2: 0.5, L1: 1, L2: 0.5, Gravity: 9.81,
		Dt: 0.005, Duration: 45.0, Integrator: "rk4",
	},
}

// PendulumPreset looks up a named pendulum configuration.
func PendulumPreset(name string) (PendulumConfig, bool) {
	cfg, ok := pendulumPresets[name]
	return cfg, ok
}

// PendulumPresetNames lists presets in sorted order.
func PendulumPresetNames() []string {
	names := make([]string, 0, len(pendulumPresets))
	for name := range pendulumPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
