// Package ctr provides the industry-benchmark expected click-through-rate
// model keyed by search position.
package ctr

import "math"

// TopPositionCTR is the benchmark CTR for position 1, also used for
// non-positive positions.
const TopPositionCTR = 0.32

// BeyondTopTenCTR is the benchmark CTR for any position past 10.
const BeyondTopTenCTR = 0.02

// benchmark maps rounded positions 1-10 to expected CTR, based on
// aggregate industry CTR studies.
var benchmark = map[int]float64{
	1:  0.32,
	2:  0.24,
	3:  0.18,
	4:  0.13,
	5:  0.10,
	6:  0.07,
	7:  0.06,
	8:  0.05,
	9:  0.04,
	10: 0.03,
}

// Expected returns the benchmark CTR for a search position. The position
// is rounded to the nearest integer (ties round to even); positions at or
// below zero are treated as position 1, positions past 10 share a flat
// long-tail rate. Total function, never fails.
func Expected(position float64) float64 {
	pos := int(math.RoundToEven(position))
	if pos <= 0 {
		return TopPositionCTR
	}
	if pos > 10 {
		return BeyondTopTenCTR
	}
	return benchmark[pos]
}
