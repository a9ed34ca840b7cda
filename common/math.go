package common

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NonNegative returns v, or 0 when v is negative or NaN.
func NonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
