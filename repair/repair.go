// Package repair projects an arbitrary assignment onto the feasible region of
// a model. Greedy, annealing and genetic search all go through it.
//
// Rules, applied in order:
//  1. Uniqueness: within each (student, source elective) pair keep only the
//     accepted request with the highest value (ties: lowest model index).
//  2. Capacity: visit capacity rows in ascending group id; while a row that
//     some accepted request enters is over capacity, reject the accepted
//     request with the lowest value that enters the group (ties: highest model
//     index). An over-full group with nobody entering is left alone.
//     Rejecting a request that also vacated a seat can push an earlier row
//     over capacity, so the pass repeats until nothing changes.
//
// Repair never accepts anything, so it terminates and its output is feasible.
// It is the identity on feasible input and therefore idempotent.
package repair

import (
	"github.com/katalvlaran/transferopt/model"
)

// Repair returns a feasible copy of sol. Entries missing from a short sol
// count as rejected; extra entries are dropped.
func Repair(m *model.Model, sol model.Solution) model.Solution {
	out := make(model.Solution, m.Len())
	copy(out, sol)
	InPlace(m, out)

	return out
}

// InPlace repairs sol and returns the number of requests it rejected.
// sol must have model length; otherwise it is left untouched and 0 is returned.
func InPlace(m *model.Model, sol model.Solution) int {
	if m.Check(sol) != nil {
		return 0
	}

	rejected := enforceUniqueness(m, sol)

	t, _ := m.TrackerFor(sol)
	for changed := true; changed; {
		changed = false
		for r := range m.Rows {
			for t.Excess(r) > 0 {
				v := weakestAdmit(m, t, r)
				if v < 0 {
					break
				}
				t.Release(v)
				rejected++
				changed = true
			}
		}
	}
	t.CopyTo(sol)

	return rejected
}

// enforceUniqueness keeps one accepted request per pair.
func enforceUniqueness(m *model.Model, sol model.Solution) int {
	rejected := 0
	for _, members := range m.PairMembers {
		keep := -1
		for _, i := range members {
			if !sol[i] {
				continue
			}
			// members are ascending, so strict > keeps the lowest index on ties.
			if keep < 0 || m.Value(i) > m.Value(keep) {
				keep = i
			}
		}
		if keep < 0 {
			continue
		}
		for _, i := range members {
			if sol[i] && i != keep {
				sol[i] = false
				rejected++
			}
		}
	}

	return rejected
}

// weakestAdmit returns the accepted request entering row r with the lowest
// value, preferring the highest index on ties. A violated row always has one.
func weakestAdmit(m *model.Model, t *model.Tracker, r int) int {
	pick := -1
	for _, i := range m.Rows[r].Admits {
		if !t.Accepted(i) {
			continue
		}
		// Admits are ascending, so <= moves to the highest index on ties.
		if pick < 0 || m.Value(i) <= m.Value(pick) {
			pick = i
		}
	}

	return pick
}
