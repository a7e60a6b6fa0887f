package model

// Tracker simulates row usage while requests are accepted one by one.
// It is run-local and not safe for concurrent use.
type Tracker struct {
	m         *Model
	usage     []int
	admitted  []int // accepted requests entering each row
	pairCount []int
	accepted  Solution
}

// Tracker returns a tracker positioned at the empty assignment.
func (m *Model) Tracker() *Tracker {
	t := &Tracker{
		m:         m,
		usage:     make([]int, len(m.Rows)),
		admitted:  make([]int, len(m.Rows)),
		pairCount: make([]int, len(m.Pairs)),
		accepted:  make(Solution, m.Len()),
	}
	for r := range m.Rows {
		t.usage[r] = m.Rows[r].InitUsage
	}

	return t
}

// TrackerFor returns a tracker positioned at sol. sol need not be feasible.
func (m *Model) TrackerFor(sol Solution) (*Tracker, error) {
	if err := m.Check(sol); err != nil {
		return nil, err
	}
	t := m.Tracker()
	for i, x := range sol {
		if x {
			t.Admit(i)
		}
	}

	return t, nil
}

// Accepted reports whether variable i is currently accepted.
func (t *Tracker) Accepted(i int) bool { return t.accepted[i] }

// PairFree reports whether the pair of variable i has no accepted request.
func (t *Tracker) PairFree(i int) bool { return t.pairCount[t.m.pairOf[i]] == 0 }

// Fits reports whether every group entered by variable i ends within its
// capacity. An over-full group has no free seat until enough requests have
// left it.
func (t *Tracker) Fits(i int) bool {
	for _, l := range t.m.links[i] {
		if l.Coef > 0 && t.usage[l.Row]+l.Coef > t.m.Rows[l.Row].Capacity {
			return false
		}
	}

	return true
}

// CanAdmit reports whether accepting i keeps the assignment feasible,
// assuming it is feasible now.
func (t *Tracker) CanAdmit(i int) bool {
	return !t.accepted[i] && t.PairFree(i) && t.Fits(i)
}

// Admit accepts variable i without checking constraints. No-op if already accepted.
func (t *Tracker) Admit(i int) {
	if t.accepted[i] {
		return
	}
	t.accepted[i] = true
	t.pairCount[t.m.pairOf[i]]++
	for _, l := range t.m.links[i] {
		t.usage[l.Row] += l.Coef
		if l.Coef > 0 {
			t.admitted[l.Row]++
		}
	}
}

// Release rejects variable i. No-op if not accepted.
func (t *Tracker) Release(i int) {
	if !t.accepted[i] {
		return
	}
	t.accepted[i] = false
	t.pairCount[t.m.pairOf[i]]--
	for _, l := range t.m.links[i] {
		t.usage[l.Row] -= l.Coef
		if l.Coef > 0 {
			t.admitted[l.Row]--
		}
	}
}

// Usage returns the current usage of a constrained group.
func (t *Tracker) Usage(groupID int64) (int, bool) {
	r, ok := t.m.rowOf[groupID]
	if !ok {
		return 0, false
	}

	return t.usage[r], true
}

// Excess returns usage − capacity of row r while some accepted request
// enters it, and 0 otherwise. Positive means the row is violated.
func (t *Tracker) Excess(r int) int { return t.m.Rows[r].excess(t.usage[r], t.admitted[r]) }

// Solution returns a copy of the current assignment.
func (t *Tracker) Solution() Solution { return t.accepted.Clone() }

// CopyTo writes the current assignment into dst, which must have model length.
func (t *Tracker) CopyTo(dst Solution) { copy(dst, t.accepted) }
