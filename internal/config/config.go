// Package config loads chaoslab settings from YAML files and provides
// named presets for both simulations.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.005
	DefaultDuration = 20.0
	DefaultTheta    = 1.5
	DefaultMaxIter  = 200
	DefaultWidth    = 800
	DefaultHeight   = 800
)

type Config struct {
	Fractal  FractalConfig  `yaml:"fractal"`
	Pendulum PendulumConfig `yaml:"pendulum"`
}

type FractalConfig struct {
	RealMin  float64 `yaml:"real_min"`
	RealMax  float64 `yaml:"real_max"`
	ImagMin  float64 `yaml:"imag_min"`
	ImagMax  float64 `yaml:"imag_max"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	MaxIter  int     `yaml:"max_iter"`
	Colormap string  `yaml:"colormap"`
	Smooth   bool    `yaml:"smooth"`
}

type PendulumConfig struct {
	Theta1     float64 `yaml:"theta1"`
	Theta2     float64 `yaml:"theta2"`
	Omega1     float64 `yaml:"omega1"`
	Omega2     float64 `yaml:"omega2"`
	M1         float64 `yaml:"m1"`
	M2         float64 `yaml:"m2"`
	L1         float64 `yaml:"l1"`
	L2         float64 `yaml:"l2"`
	Gravity    float64 `yaml:"gravity"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Integrator string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Fractal: FractalConfig{
			RealMin: -2.0, RealMax: 0.5,
			ImagMin: -1.2, ImagMax: 1.2,
			Width: DefaultWidth, Height: DefaultHeight,
			MaxIter:  DefaultMaxIter,
			Colormap: "fire",
		},
		Pendulum: PendulumConfig{
			Theta1: DefaultTheta, Theta2: DefaultTheta,
			M1: 1.0, M2: 1.0,
			L1: 1.0, L2: 1.0,
			Gravity:    9.81,
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Integrator: "rk4",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// InitState returns the pendulum initial state vector.
func (p PendulumConfig) InitState() []float64 {
	return []float64{p.Theta1, p.Theta2, p.Omega1, p.Omega2}
}
