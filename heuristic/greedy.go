package heuristic

import (
	"sort"

	"github.com/katalvlaran/transferopt/model"
)

// Greedy accepts requests in preference order while they fit.
//
// Order: priority ascending, then older first (requests without a timestamp
// count as the newest), then id ascending. A request is skipped when its pair
// already has an accepted request or any group it enters is full at that
// moment; seats freed by earlier accepted requests are available to later ones.
//
// Complexity: O(n log n + Σ links).
func Greedy(m *model.Model) Result {
	order := make([]int, m.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := &m.Requests[order[a]], &m.Requests[order[b]]
		if ra.Priority != rb.Priority {
			return ra.Priority < rb.Priority
		}
		if aa, ab := m.Ages[order[a]], m.Ages[order[b]]; aa != ab {
			return aa > ab
		}

		return ra.ID < rb.ID
	})

	t := m.Tracker()
	for _, i := range order {
		if t.CanAdmit(i) {
			t.Admit(i)
		}
	}

	sol := t.Solution()

	return Result{Solution: sol, Objective: m.Objective(sol), Iterations: 1}
}
