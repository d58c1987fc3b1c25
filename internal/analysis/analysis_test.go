package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/physics"
)

func TestPadPow2(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{128, 128},
	}

	for _, tt := range tests {
		out := PadPow2(make([]float64, tt.in))
		if len(out) != tt.want {
			t.Errorf("PadPow2(len %d) = len %d, want %d", tt.in, len(out), tt.want)
		}
	}
}

func TestFFTConstant(t *testing.T) {
	// A constant signal concentrates everything in the DC bin
	data := make([]float64, 64)
	for i := range data {
		data[i] = 2.0
	}

	fft := FFT(data)
	if math.Abs(real(fft[0])-128) > 1e-9 {
		t.Errorf("expected DC bin 128, got %f", real(fft[0]))
	}
	for i := 1; i < len(fft); i++ {
		if math.Hypot(real(fft[i]), imag(fft[i])) > 1e-9 {
			t.Errorf("expected zero at bin %d", i)
		}
	}
}

func TestPowerSpectrumPeak(t *testing.T) {
	// sin(2*pi*8*t) sampled over one second at 128 Hz peaks in bin 8
	n := 128
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)

	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Errorf("expected peak at bin 8, got %d", peak)
	}
}

func TestDominantFrequency(t *testing.T) {
	n := 256
	duration := 2.0 // 4 Hz signal: 8 cycles over 2 s
	data := make([]float64, n)
	for i := range data {
		tm := duration * float64(i) / float64(n)
		data[i] = math.Sin(2 * math.Pi * 4 * tm)
	}

	freq := DominantFrequency(data, duration)
	if math.Abs(freq-4.0) > 0.5 {
		t.Errorf("expected dominant frequency ~4 Hz, got %f", freq)
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if f := DominantFrequency([]float64{1}, 1.0); f != 0 {
		t.Errorf("expected 0 for single sample, got %f", f)
	}
	if f := DominantFrequency([]float64{1, 2, 3}, 0); f != 0 {
		t.Errorf("expected 0 for zero duration, got %f", f)
	}
}

func TestSeparationGrowsForChaos(t *testing.T) {
	dp := physics.NewDoublePendulum()
	integ := integrators.NewRK4()

	// High-energy initial condition, deep in the chaotic regime
	x0 := dynamo.State{3.0, 3.0, 0, 0}
	eps := 1e-8

	times, sep := analysisRun(t, dp, integ, x0, eps)

	if sep[0] <= 0 {
		t.Fatal("expected positive initial separation")
	}
	final := sep[len(sep)-1]
	if final < 100*eps {
		t.Errorf("expected separation to grow at least 100x, got %e from %e", final, eps)
	}
	if len(times) != len(sep) {
		t.Errorf("times and separations disagree: %d vs %d", len(times), len(sep))
	}
}

func TestSeparationStaysSmallForRegular(t *testing.T) {
	dp := physics.NewDoublePendulum()
	integ := integrators.NewRK4()

	// Small oscillations are quasi-periodic, not chaotic
	x0 := dynamo.State{0.05, 0.05, 0, 0}
	eps := 1e-8

	_, sep := analysisRun(t, dp, integ, x0, eps)

	final := sep[len(sep)-1]
	if final > 1e-5 {
		t.Errorf("expected bounded separation for small oscillations, got %e", final)
	}
}

func analysisRun(t *testing.T, dp *physics.DoublePendulum, integ dynamo.Integrator, x0 dynamo.State, eps float64) ([]float64, []float64) {
	t.Helper()
	times, sep := Separation(dp, integ, x0, eps, 0.01, 10.0)
	if len(sep) == 0 {
		t.Fatal("expected separation samples")
	}
	return times, sep
}

func TestSeparationSinglePendulumContrast(t *testing.T) {
	// The single pendulum is the non-chaotic counterpart: even at a large
	// starting angle, nearby trajectories never diverge the way the
	// double pendulum's do
	p := physics.NewPendulum()
	eps := 1e-8

	_, sep := Separation(p, integrators.NewRK4(), dynamo.State{2.0, 0}, eps, 0.01, 10.0)
	if len(sep) == 0 {
		t.Fatal("expected separation samples")
	}

	final := sep[len(sep)-1]
	if final > 1e-4 {
		t.Errorf("expected bounded separation for the single pendulum, got %e", final)
	}
}

func TestLyapunovExponentSign(t *testing.T) {
	dp := physics.NewDoublePendulum()

	chaotic := LyapunovExponent(dp, integrators.NewRK4(), dynamo.State{3.0, 3.0, 0, 0}, 0.01, 20.0, 1e-8)
	if chaotic <= 0 {
		t.Errorf("expected positive exponent for chaotic motion, got %f", chaotic)
	}

	regular := LyapunovExponent(dp, integrators.NewRK4(), dynamo.State{0.05, 0.05, 0, 0}, 0.01, 20.0, 1e-8)
	if regular >= chaotic {
		t.Errorf("expected regular exponent (%f) below chaotic (%f)", regular, chaotic)
	}
}

func TestLyapunovExponentDegenerate(t *testing.T) {
	dp := physics.NewDoublePendulum()

	if l := LyapunovExponent(dp, integrators.NewRK4(), dynamo.State{}, 0.01, 1.0, 1e-8); l != 0 {
		t.Errorf("expected 0 for empty state, got %f", l)
	}
	if l := LyapunovExponent(dp, integrators.NewRK4(), dynamo.State{1, 1, 0, 0}, 0.01, 1.0, 0); l != 0 {
		t.Errorf("expected 0 for zero perturbation, got %f", l)
	}
}
