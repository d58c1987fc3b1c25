package sweep

import (
	"context"
	"testing"

	"github.com/san-kum/chaoslab/internal/physics"
)

func TestFlipMap(t *testing.T) {
	dp := physics.NewDoublePendulum()

	grid := Grid{
		Theta1Min: -3.0, Theta1Max: 3.0,
		Theta2Min: -3.0, Theta2Max: 3.0,
		Resolution: 8,
		Dt:         0.01,
		Duration:   5.0,
	}

	m, err := FlipMap(context.Background(), dp, grid)
	if err != nil {
		t.Fatalf("flip map failed: %v", err)
	}

	if m.Resolution != 8 || len(m.FlipTimes) != 64 {
		t.Fatalf("expected 8x8 map, got resolution %d with %d cells", m.Resolution, len(m.FlipTimes))
	}

	for i, ft := range m.FlipTimes {
		if ft <= 0 || ft > grid.Duration {
			t.Fatalf("flip time out of range at cell %d: %f", i, ft)
		}
	}
}

func TestFlipMapLowEnergyNeverFlips(t *testing.T) {
	dp := physics.NewDoublePendulum()

	// Small oscillations lack the energy to go over the top
	grid := Grid{
		Theta1Min: -0.2, Theta1Max: 0.2,
		Theta2Min: -0.2, Theta2Max: 0.2,
		Resolution: 4,
		Dt:         0.01,
		Duration:   3.0,
	}

	m, err := FlipMap(context.Background(), dp, grid)
	if err != nil {
		t.Fatalf("flip map failed: %v", err)
	}

	for i, ft := range m.FlipTimes {
		if ft != grid.Duration {
			t.Errorf("expected saturation at cell %d, got flip at t=%f", i, ft)
		}
	}
}

func TestFlipMapDeterministic(t *testing.T) {
	dp := physics.NewDoublePendulum()

	grid := Grid{
		Theta1Min: -3.0, Theta1Max: 3.0,
		Theta2Min: -3.0, Theta2Max: 3.0,
		Resolution: 6,
		Dt:         0.02,
		Duration:   2.0,
	}

	a, err := FlipMap(context.Background(), dp, grid)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FlipMap(context.Background(), dp, grid)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.FlipTimes {
		if a.FlipTimes[i] != b.FlipTimes[i] {
			t.Fatalf("nondeterministic flip time at cell %d", i)
		}
	}
}

func TestFlipMapInvalidGrid(t *testing.T) {
	dp := physics.NewDoublePendulum()

	tests := []struct {
		name string
		grid Grid
	}{
		{"resolution too small", Grid{Theta1Min: -1, Theta1Max: 1, Theta2Min: -1, Theta2Max: 1, Resolution: 1, Dt: 0.01, Duration: 1}},
		{"inverted range", Grid{Theta1Min: 1, Theta1Max: -1, Theta2Min: -1, Theta2Max: 1, Resolution: 4, Dt: 0.01, Duration: 1}},
		{"zero dt", Grid{Theta1Min: -1, Theta1Max: 1, Theta2Min: -1, Theta2Max: 1, Resolution: 4, Dt: 0, Duration: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FlipMap(context.Background(), dp, tt.grid); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFlipMapCancellation(t *testing.T) {
	dp := physics.NewDoublePendulum()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := Grid{
		Theta1Min: -3, Theta1Max: 3,
		Theta2Min: -3, Theta2Max: 3,
		Resolution: 16,
		Dt:         0.01,
		Duration:   5.0,
	}

	if _, err := FlipMap(ctx, dp, grid); err == nil {
		t.Error("expected cancellation error")
	}
}
