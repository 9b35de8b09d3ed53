// Package numbers holds the shared rounding and division-guard helpers. Every
// ratio in the analytics output goes through here so the zero-denominator
// convention (return 0, never NaN) is applied uniformly.
package numbers

import "math"

// Round2 rounds to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Percentage returns part/total*100 rounded to two decimals, or 0 when total
// is zero.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// Ratio returns part/total rounded to two decimals, or 0 when total is zero.
func Ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total))
}
