package analytics

import "math"

// Round1 rounds to one decimal place. Halves round toward +Inf so -2.25
// becomes -2.2, matching what the dashboard has always displayed.
func Round1(v float64) float64 {
	return roundHalfUp(v*10) / 10
}

// Round0 rounds to a whole number with the same half rule as Round1.
func Round0(v float64) float64 {
	return roundHalfUp(v)
}

func roundHalfUp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v + 0.5)
}

// GrowthPercent is the period-over-period change in percent, rounded to one
// decimal. It is 0 when there is nothing to compare against.
func GrowthPercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return Round1((current - previous) / previous * 100)
}
