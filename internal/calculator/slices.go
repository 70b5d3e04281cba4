// Package calculator holds the pure pizza arithmetic: the slice formula that
// turns lateness into an award, and the accumulator that folds slice deltas
// into a (pizzas, slices) balance.
package calculator

import (
	"fmt"
	"math"
)

const (
	// DefaultCurveShift is the curve shift new groups start with.
	DefaultCurveShift = 0.3

	// MinCurveShift is the exclusive lower bound for a curve shift; the
	// formula takes ln(2 + shift).
	MinCurveShift = -2.0

	// GraceMinutes is the lateness below which nothing is awarded. The curve
	// is normalized so exactly GraceMinutes yields one slice.
	GraceMinutes = 2
)

// SlicesForMinutes maps lateness in minutes to an integer slice award.
//
// Negative or NaN input counts as on time. Below GraceMinutes the award is 0.
// Otherwise the award is ceil(ln(minutes + shift) / ln(2 + shift)), which grows
// quickly for the first minutes and sub-linearly after that. Lateness past the
// grace window always earns at least one slice, so for shifts at or below -1,
// where ln(2 + shift) <= 0 and the curve would fall, the award stays at 1.
func SlicesForMinutes(minutesLate, curveShift float64) int {
	if math.IsNaN(minutesLate) || minutesLate < GraceMinutes {
		return 0
	}

	// ln(m+s) * (1/ln(2+s)), written as a quotient so m == 2 is exactly 1.
	raw := math.Log(minutesLate+curveShift) / math.Log(2+curveShift)
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 1 {
		return 1
	}
	return int(math.Ceil(raw))
}

// ValidateCurveShift reports whether shift is usable by SlicesForMinutes.
func ValidateCurveShift(shift float64) error {
	if math.IsNaN(shift) || math.IsInf(shift, 0) {
		return fmt.Errorf("curve shift must be a finite number")
	}
	if shift <= MinCurveShift {
		return fmt.Errorf("curve shift must be greater than %v, got %v", MinCurveShift, shift)
	}
	return nil
}

// LegacySlicesForMinutes is the step-then-log formula used before curve shifts
// existed. Kept for interpreting historical data; new awards never use it.
func LegacySlicesForMinutes(minutesLate, k float64) int {
	m := math.Max(0, math.Floor(minutesLate))
	switch {
	case m < 2:
		return 0
	case m < 4:
		return 1
	case m < 6:
		return 2
	}
	return 4 + int(math.Ceil(k*math.Log(m-6+1)))
}
