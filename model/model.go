package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/katalvlaran/transferopt/snapshot"
)

// Model is the 0/1 program of one run. It is read-only after New and may be
// shared by concurrent solvers.
type Model struct {
	// Requests in model order; index i is variable x_i.
	Requests []snapshot.Request

	// Values[i] is the objective coefficient of x_i.
	Values []float64

	// Ages[i] is the age of request i relative to the newest request (0 when unknown).
	Ages []time.Duration

	// Rows are the capacity constraints, sorted by group id.
	Rows []Row

	// Pairs lists the uniqueness keys in order of first appearance;
	// PairMembers[p] holds the variables of Pairs[p] in ascending order.
	Pairs       []snapshot.PairKey
	PairMembers [][]int

	// MissingGroups are ids referenced by requests but absent from the group table.
	MissingGroups []int64

	Params Params

	pairOf []int
	links  [][]Link
	index  map[int64]int
	rowOf  map[int64]int
}

// New builds the model of groups and requests. The slices are kept by
// reference and must not be mutated while the model is in use.
func New(groups []snapshot.Group, requests []snapshot.Request, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(requests)
	m := &Model{
		Requests:      requests,
		Values:        make([]float64, n),
		Ages:          make([]time.Duration, n),
		MissingGroups: snapshot.MissingGroups(groups, requests),
		Params:        p,
		pairOf:        make([]int, n),
		links:         make([][]Link, n),
		index:         make(map[int64]int, n),
		rowOf:         make(map[int64]int),
	}

	var latest time.Time
	for _, r := range requests {
		if !r.CreatedAt.IsZero() && r.CreatedAt.After(latest) {
			latest = r.CreatedAt
		}
	}

	info := snapshot.Index(groups)
	coefs := make([]map[int64]int, n)
	referenced := make(map[int64]struct{})
	pairIdx := make(map[snapshot.PairKey]int)

	for i, r := range requests {
		if _, dup := m.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRequest, r.ID)
		}
		m.index[r.ID] = i

		if !r.CreatedAt.IsZero() {
			m.Ages[i] = latest.Sub(r.CreatedAt)
		}
		m.Values[i] = Value(r.Priority, m.Ages[i], p)

		key := r.Pair()
		pi, ok := pairIdx[key]
		if !ok {
			pi = len(m.Pairs)
			pairIdx[key] = pi
			m.Pairs = append(m.Pairs, key)
			m.PairMembers = append(m.PairMembers, nil)
		}
		m.pairOf[i] = pi
		m.PairMembers[pi] = append(m.PairMembers[pi], i)

		c := netCoefficients(r)
		for g := range c {
			if _, ok := info[g]; !ok {
				delete(c, g)
				continue
			}
			referenced[g] = struct{}{}
		}
		coefs[i] = c
	}

	ids := lo.Keys(referenced)
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	m.Rows = make([]Row, len(ids))
	for r, g := range ids {
		gi := info[g]
		m.Rows[r] = Row{
			GroupID:   g,
			Capacity:  gi.Capacity,
			InitUsage: gi.InitUsage,
		}
		m.rowOf[g] = r
	}

	for i, c := range coefs {
		for g, coef := range c {
			if coef == 0 {
				continue
			}
			r := m.rowOf[g]
			m.links[i] = append(m.links[i], Link{Row: r, Coef: coef})
			if coef > 0 {
				m.Rows[r].Admits = append(m.Rows[r].Admits, i)
			} else {
				m.Rows[r].Vacates = append(m.Rows[r].Vacates, i)
			}
		}
		sort.Slice(m.links[i], func(a, b int) bool { return m.links[i][a].Row < m.links[i][b].Row })
	}

	return m, nil
}

// netCoefficients maps every group referenced by r to its net coefficient:
// +1 entered, −1 vacated, 0 both.
func netCoefficients(r snapshot.Request) map[int64]int {
	c := make(map[int64]int, len(r.FromGroups)+len(r.ToGroups))
	for _, g := range lo.Uniq(r.ToGroups) {
		c[g]++
	}
	for _, g := range lo.Uniq(r.FromGroups) {
		c[g]--
	}

	return c
}

// Len returns the number of variables.
func (m *Model) Len() int { return len(m.Requests) }

// Value returns the objective coefficient of variable i.
func (m *Model) Value(i int) float64 { return m.Values[i] }

// PairOf returns the uniqueness row of variable i.
func (m *Model) PairOf(i int) int { return m.pairOf[i] }

// Links returns the capacity-row coefficients of variable i, sorted by row.
// The slice is shared; do not modify it.
func (m *Model) Links(i int) []Link { return m.links[i] }

// IndexOf returns the variable of the request with the given id.
func (m *Model) IndexOf(id int64) (int, bool) {
	i, ok := m.index[id]

	return i, ok
}

// RowOf returns the capacity row of the given group, if the group is constrained.
func (m *Model) RowOf(groupID int64) (int, bool) {
	r, ok := m.rowOf[groupID]

	return r, ok
}
