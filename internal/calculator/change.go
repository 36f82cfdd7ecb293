package calculator

// Lag windows, in trading days, for the cross-sectional change columns.
const (
	LagDay   = 1
	LagWeek  = 5
	LagMonth = 21
)

// PctChange is the percent change of the last value against the value lag
// observations earlier. Series too short for the lag report 0.
func PctChange(x []float64, lag int) float64 {
	if lag <= 0 || len(x) <= lag {
		return 0
	}
	base := x[len(x)-1-lag]
	if base == 0 {
		return 0
	}
	return 100 * (x[len(x)-1]/base - 1)
}

// ChangeSinceStart is the percent change from the first to the last observation.
func ChangeSinceStart(x []float64) float64 {
	if len(x) < 2 || x[0] == 0 {
		return 0
	}
	return (x[len(x)-1] - x[0]) / x[0] * 100
}
