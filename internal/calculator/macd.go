package calculator

// MACD returns the EMA(12) - EMA(26) line, its EMA(9) signal line and the
// histogram (line minus signal).
func MACD(x []float64) (line, signal, hist []float64) {
	fast := EMA(x, 12)
	slow := EMA(x, 26)

	line = make([]float64, len(x))
	for i := range x {
		line[i] = fast[i] - slow[i]
	}
	signal = EMA(line, 9)

	hist = make([]float64, len(x))
	for i := range x {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}
