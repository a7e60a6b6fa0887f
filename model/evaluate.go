package model

import (
	"fmt"
	"sort"
)

// Check returns ErrSolutionSize unless sol has one entry per variable.
func (m *Model) Check(sol Solution) error {
	if len(sol) != m.Len() {
		return fmt.Errorf("%w: got %d, want %d", ErrSolutionSize, len(sol), m.Len())
	}

	return nil
}

// Objective returns Σ value_i over accepted requests.
// Entries beyond the model length are ignored.
func (m *Model) Objective(sol Solution) float64 {
	total := 0.0
	for i := 0; i < len(sol) && i < m.Len(); i++ {
		if sol[i] {
			total += m.Values[i]
		}
	}

	return total
}

// RowUsage returns the post-assignment usage of every capacity row.
func (m *Model) RowUsage(sol Solution) []int {
	usage := make([]int, len(m.Rows))
	for r := range m.Rows {
		usage[r] = m.Rows[r].InitUsage
	}
	for i := 0; i < len(sol) && i < m.Len(); i++ {
		if !sol[i] {
			continue
		}
		for _, l := range m.links[i] {
			usage[l.Row] += l.Coef
		}
	}

	return usage
}

// Usage returns the post-assignment usage of every constrained group, keyed by group id.
func (m *Model) Usage(sol Solution) map[int64]int {
	rows := m.RowUsage(sol)
	out := make(map[int64]int, len(rows))
	for r, u := range rows {
		out[m.Rows[r].GroupID] = u
	}

	return out
}

// Violations lists every broken constraint of sol: capacity rows first (by
// group id), then uniqueness rows (by first appearance). A size mismatch is
// returned as an error.
func (m *Model) Violations(sol Solution) ([]Violation, error) {
	if err := m.Check(sol); err != nil {
		return nil, err
	}

	var out []Violation
	for r, u := range m.RowUsage(sol) {
		admitted := 0
		for _, i := range m.Rows[r].Admits {
			if sol[i] {
				admitted++
			}
		}
		if excess := m.Rows[r].excess(u, admitted); excess > 0 {
			out = append(out, Violation{Kind: CapacityViolation, GroupID: m.Rows[r].GroupID, Excess: excess})
		}
	}
	for p, members := range m.PairMembers {
		n := 0
		for _, i := range members {
			if sol[i] {
				n++
			}
		}
		if n > 1 {
			out = append(out, Violation{Kind: UniquenessViolation, Pair: m.Pairs[p], Excess: n - 1})
		}
	}

	return out, nil
}

// Feasible reports whether sol has the right size and breaks no constraint.
func (m *Model) Feasible(sol Solution) bool {
	v, err := m.Violations(sol)

	return err == nil && len(v) == 0
}

// AcceptedIDs returns the ids of accepted requests in ascending order.
func (m *Model) AcceptedIDs(sol Solution) []int64 {
	ids := make([]int64, 0, len(sol))
	for i := 0; i < len(sol) && i < m.Len(); i++ {
		if sol[i] {
			ids = append(ids, m.Requests[i].ID)
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	return ids
}

// SolutionOf builds the solution accepting exactly the given request ids.
// Unknown ids are reported with ErrUnknownRequest.
func (m *Model) SolutionOf(ids []int64) (Solution, error) {
	sol := make(Solution, m.Len())
	for _, id := range ids {
		i, ok := m.index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownRequest, id)
		}
		sol[i] = true
	}

	return sol, nil
}
