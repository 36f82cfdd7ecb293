package calculator

// RSI computes the relative strength index over a trailing window of period
// price changes, using the plain mean of gains and losses in that window.
// The first value appears at index period. A window without losses saturates at 100.
func RSI(x []float64, period int) []float64 {
	out := nanSlice(len(x))
	if period <= 0 || len(x) < period+1 {
		return out
	}

	gains := make([]float64, len(x))
	losses := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		change := x[i] - x[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(x); i++ {
		avgGain := mean(gains[i-period+1 : i+1])
		avgLoss := mean(losses[i-period+1 : i+1])
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
