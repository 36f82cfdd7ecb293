package calculator

import "math"

// Bollinger returns bands at k sample standard deviations around the
// period-bar simple moving average.
func Bollinger(x []float64, period int, k float64) (upper, middle, lower []float64) {
	upper = nanSlice(len(x))
	middle = nanSlice(len(x))
	lower = nanSlice(len(x))
	if period <= 1 {
		return upper, middle, lower
	}

	for i := period - 1; i < len(x); i++ {
		window := x[i-period+1 : i+1]
		m := mean(window)
		sumSq := 0.0
		for _, v := range window {
			d := v - m
			sumSq += d * d
		}
		width := k * math.Sqrt(sumSq/float64(period-1))
		middle[i] = m
		upper[i] = m + width
		lower[i] = m - width
	}
	return upper, middle, lower
}
