// Package scroll computes the ping-pong offset used to reveal labels wider than their column.
package scroll

import "math"

// Offset returns the sweep position in [0,1] at nowMs for a sweep lasting periodMs.
// Even cycles sweep forward, odd cycles sweep back, both eased in and out.
func Offset(nowMs, periodMs int64) float64 {
	if periodMs <= 0 {
		return 0
	}
	phase := nowMs % periodMs
	cycle := nowMs / periodMs
	if phase < 0 {
		phase += periodMs
		cycle--
	}

	eased := easeInOutSine(float64(phase) / float64(periodMs))
	if cycle%2 != 0 {
		return 1 - eased
	}
	return eased
}

func easeInOutSine(x float64) float64 {
	return (1 - math.Cos(math.Pi*x)) / 2
}
