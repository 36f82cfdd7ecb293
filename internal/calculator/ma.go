package calculator

import "math"

// SMA computes the trailing simple moving average of x over period.
// Positions before the first full window are NaN.
func SMA(x []float64, period int) []float64 {
	out := nanSlice(len(x))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(x); i++ {
		out[i] = mean(x[i-period+1 : i+1])
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(span+1),
// seeded with the first observation (no warm-up gap).
func EMA(x []float64, span int) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	if span <= 0 {
		copy(out, x)
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = alpha*x[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Last returns the final non-NaN value of a series and whether one exists.
func Last(x []float64) (float64, bool) {
	for i := len(x) - 1; i >= 0; i-- {
		if !math.IsNaN(x[i]) {
			return x[i], true
		}
	}
	return 0, false
}

func mean(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
