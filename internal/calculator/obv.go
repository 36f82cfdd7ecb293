package calculator

// OBV accumulates volume signed by the direction of each close-to-close change.
// Unchanged closes and the first bar count as positive.
func OBV(closes, volumes []float64) []float64 {
	n := len(closes)
	if len(volumes) < n {
		n = len(volumes)
	}
	out := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		if i > 0 && closes[i] < closes[i-1] {
			total -= volumes[i]
		} else {
			total += volumes[i]
		}
		out[i] = total
	}
	return out
}
