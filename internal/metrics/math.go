package metrics

import (
	"math"
	"strconv"
)

// Round1 rounds a value to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// PctChange returns the percentage change from prev to cur, rounded to
// one decimal. A zero baseline yields 0 instead of dividing by zero.
func PctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return Round1((cur - prev) / prev * 100)
}

// RatePercent formats num/den as a percentage string with one decimal.
// A zero denominator yields "0".
func RatePercent(num, den int) string {
	if den == 0 {
		return "0"
	}
	pct := Round1(float64(num) / float64(den) * 100)
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

// RoundPct returns the nearest whole percentage of num/den, 0 when den
// is 0.
func RoundPct(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}
