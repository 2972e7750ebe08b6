package scroll

import (
	"math"
	"testing"
)

const period = 5000

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// One period is one sweep: the offset reaches 1 at periodMs and is back at 0 after 2*periodMs.
func TestOffset_KeyPoints(t *testing.T) {
	tests := []struct {
		now      int64
		expected float64
	}{
		{0, 0},
		{period / 2, 0.5},
		{period, 1},
		{period + period/2, 0.5},
		{2 * period, 0},
	}

	for _, tt := range tests {
		if got := Offset(tt.now, period); !approx(got, tt.expected) {
			t.Errorf("Offset(%d, %d) = %v, want %v", tt.now, period, got, tt.expected)
		}
	}
}

func TestOffset_Bounded(t *testing.T) {
	for now := int64(-3 * period); now < 5*period; now += 37 {
		got := Offset(now, period)
		if got < 0 || got > 1 {
			t.Fatalf("Offset(%d) = %v, outside [0,1]", now, got)
		}
	}
}

func TestOffset_PeriodicOverTwoCycles(t *testing.T) {
	for now := int64(0); now < 2*period; now += 101 {
		a := Offset(now, period)
		b := Offset(now+2*period, period)
		if !approx(a, b) {
			t.Fatalf("Offset(%d) = %v but Offset(%d) = %v", now, a, now+2*period, b)
		}
	}
}

func TestOffset_Continuous(t *testing.T) {
	// ease-in-out-sine has a maximum slope of pi/2 per period
	maxStep := math.Pi / 2 / period * 1.01
	prev := Offset(0, period)
	for now := int64(1); now <= 4*period; now++ {
		cur := Offset(now, period)
		if math.Abs(cur-prev) > maxStep {
			t.Fatalf("jump at %d: %v -> %v", now, prev, cur)
		}
		prev = cur
	}
}

func TestOffset_MirroredAroundHalfSweep(t *testing.T) {
	for now := int64(0); now <= period; now += 250 {
		a := Offset(now, period)
		b := Offset(period-now, period)
		if !approx(a+b, 1) {
			t.Errorf("Offset(%d) + Offset(%d) = %v, want 1", now, period-now, a+b)
		}
	}
}

func TestOffset_NonPositivePeriod(t *testing.T) {
	if got := Offset(1234, 0); got != 0 {
		t.Errorf("Offset(1234, 0) = %v, want 0", got)
	}
	if got := Offset(1234, -5); got != 0 {
		t.Errorf("Offset(1234, -5) = %v, want 0", got)
	}
}
