package model

import (
	"math"
	"time"
)

// Value returns the objective coefficient of a request with the given
// priority and age. The result is finite and never negative.
func Value(priority int, age time.Duration, p Params) float64 {
	base := p.PriorityCeiling - float64(priority)
	if !finite(base) || base < 0 {
		base = 0
	}

	return base + TimeBonus(age, p)
}

// TimeBonus returns MaxTimeBonus·(1 − exp(−age·TimeScale/MaxTimeBonus)).
// Non-positive ages and degenerate parameters yield 0.
func TimeBonus(age time.Duration, p Params) float64 {
	if age <= 0 || !(p.TimeScale > 0) || !(p.MaxTimeBonus > 0) {
		return 0
	}

	x := age.Seconds() * p.TimeScale / p.MaxTimeBonus
	// -Expm1(-x) is 1-exp(-x) without cancellation for small x.
	b := p.MaxTimeBonus * -math.Expm1(-x)
	if !finite(b) || b < 0 {
		return 0
	}

	return b
}
