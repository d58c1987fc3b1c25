package dynamo

import (
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()

	c[0] = 99
	if s[0] != 1 {
		t.Error("clone shares backing array with original")
	}
}

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"finite", State{1, -2, 0}, true},
		{"empty", State{}, true},
		{"nan", State{1, math.NaN()}, false},
		{"positive inf", State{math.Inf(1)}, false},
		{"negative inf", State{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateNorm(t *testing.T) {
	s := State{3, 4}
	if math.Abs(s.Norm()-5) > 1e-12 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}
}

func TestStateSub(t *testing.T) {
	a := State{5, 3}
	b := State{2, 1}
	d := a.Sub(b)
	if d[0] != 3 || d[1] != 2 {
		t.Errorf("expected {3, 2}, got %v", d)
	}
}
