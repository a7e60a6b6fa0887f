package ilp

import (
	"sort"
	"time"

	"github.com/katalvlaran/transferopt/heuristic"
	"github.com/katalvlaran/transferopt/model"
)

// bbEngine holds the search state. All slices are indexed by variable, row
// or pair and updated incrementally; every change on the way down is undone
// on the way back up.
type bbEngine struct {
	m   *model.Model
	n   int
	eps float64

	// Budgets
	useDeadline bool
	deadline    time.Time
	nodeLimit   int
	nodes       int
	stopped     Status // Optimal while no cutoff fired

	// Branching order: variables by descending value.
	order []int
	value []float64

	// Capacity rows: fixed = InitUsage + Σ coef over x=1;
	// negFree = −(number of undecided vacating variables);
	// entered = number of admitting variables set to 1.
	// A row with entered > 0 must keep fixed + negFree ≤ capacity.
	capacity []int
	fixed    []int
	negFree  []int
	entered  []int

	// Uniqueness rows: members in branching order, the first undecided one,
	// and whether one member is already accepted.
	pairSeq  [][]int
	pairHead []int
	pairUsed []bool

	// openSum = Σ over unused pairs of the value of their head.
	openSum float64

	cur    model.Solution
	curVal float64

	best    model.Solution
	bestVal float64
}

// Solve maximizes the model objective exactly (or up to a cutoff).
//
// Errors:
//   - ErrBadOptions for invalid options.
//   - ErrInfeasible if a capacity row is violated by every assignment.
func Solve(m *model.Model, opts Options) (Outcome, error) {
	if err := opts.validate(); err != nil {
		return Outcome{}, err
	}

	e := newEngine(m, opts)
	if !e.rootFeasible() {
		return Outcome{}, ErrInfeasible
	}
	e.seedIncumbent(opts.WarmStart)
	if e.n > 0 {
		e.dfs(0)
	}

	return Outcome{
		Solution:  e.best,
		Objective: m.Objective(e.best),
		Status:    e.stopped,
		Nodes:     e.nodes,
	}, nil
}

func newEngine(m *model.Model, opts Options) *bbEngine {
	var (
		n = m.Len()
		e = &bbEngine{
			m:         m,
			n:         n,
			eps:       opts.Eps,
			nodeLimit: opts.NodeLimit,
			stopped:   Optimal,
			order:     make([]int, n),
			value:     append([]float64(nil), m.Values...),
			capacity:  make([]int, len(m.Rows)),
			fixed:     make([]int, len(m.Rows)),
			negFree:   make([]int, len(m.Rows)),
			entered:   make([]int, len(m.Rows)),
			pairSeq:   make([][]int, len(m.Pairs)),
			pairHead:  make([]int, len(m.Pairs)),
			pairUsed:  make([]bool, len(m.Pairs)),
			cur:       make(model.Solution, n),
			best:      make(model.Solution, n),
		}
	)
	if opts.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(opts.TimeLimit)
	}

	for i := range e.order {
		e.order[i] = i
	}
	sort.SliceStable(e.order, func(a, b int) bool { return e.value[e.order[a]] > e.value[e.order[b]] })

	for r, row := range m.Rows {
		e.capacity[r] = row.Capacity
		e.fixed[r] = row.InitUsage
		e.negFree[r] = -len(row.Vacates)
	}

	for _, v := range e.order {
		p := m.PairOf(v)
		e.pairSeq[p] = append(e.pairSeq[p], v)
	}
	for p := range e.pairSeq {
		e.openSum += e.headValue(p)
	}

	return e
}

// rootFeasible reports whether the empty assignment satisfies the model.
func (e *bbEngine) rootFeasible() bool {
	return e.m.Feasible(make(model.Solution, e.n))
}

// seedIncumbent starts from the empty assignment, or from greedy when it is
// better and warm starting is enabled.
func (e *bbEngine) seedIncumbent(warm bool) {
	e.bestVal = 0
	if !warm || e.n == 0 {
		return
	}
	g := heuristic.Greedy(e.m)
	if g.Objective > e.bestVal+e.eps && e.m.Feasible(g.Solution) {
		copy(e.best, g.Solution)
		e.bestVal = g.Objective
	}
}

func (e *bbEngine) headValue(p int) float64 {
	if e.pairHead[p] < len(e.pairSeq[p]) {
		return e.value[e.pairSeq[p][e.pairHead[p]]]
	}

	return 0
}

// checkStop counts a node and reports whether a budget is exhausted.
func (e *bbEngine) checkStop() bool {
	if e.stopped != Optimal {
		return true
	}
	e.nodes++
	if e.nodeLimit > 0 && e.nodes > e.nodeLimit {
		e.stopped = NodeLimit
		return true
	}
	if e.useDeadline && e.nodes&1023 == 0 && time.Now().After(e.deadline) {
		e.stopped = TimeLimit
		return true
	}

	return false
}

// canTake reports whether x_v=1 keeps every row satisfiable.
// A vacating coefficient leaves fixed+negFree unchanged, so only admits matter.
func (e *bbEngine) canTake(v int) bool {
	for _, l := range e.m.Links(v) {
		if l.Coef > 0 && e.fixed[l.Row]+l.Coef+e.negFree[l.Row] > e.capacity[l.Row] {
			return false
		}
	}

	return true
}

// canSkip reports whether x_v=0 keeps every row satisfiable. Rows nobody
// has entered yet stay satisfiable whatever their vacating variables do.
func (e *bbEngine) canSkip(v int) bool {
	for _, l := range e.m.Links(v) {
		if l.Coef < 0 && e.entered[l.Row] > 0 && e.fixed[l.Row]+e.negFree[l.Row]+1 > e.capacity[l.Row] {
			return false
		}
	}

	return true
}

// worthTaking: zero-value requests are only useful for the seats they free.
func (e *bbEngine) worthTaking(v int) bool {
	if e.value[v] > 0 {
		return true
	}
	for _, l := range e.m.Links(v) {
		if l.Coef < 0 {
			return true
		}
	}

	return false
}

func (e *bbEngine) take(v int) {
	p := e.m.PairOf(v)
	e.openSum -= e.headValue(p)
	e.pairUsed[p] = true
	e.pairHead[p]++
	e.cur[v] = true
	e.curVal += e.value[v]
	for _, l := range e.m.Links(v) {
		e.fixed[l.Row] += l.Coef
		if l.Coef < 0 {
			e.negFree[l.Row]++
		} else {
			e.entered[l.Row]++
		}
	}
}

func (e *bbEngine) untake(v int) {
	p := e.m.PairOf(v)
	for _, l := range e.m.Links(v) {
		e.fixed[l.Row] -= l.Coef
		if l.Coef < 0 {
			e.negFree[l.Row]--
		} else {
			e.entered[l.Row]--
		}
	}
	e.curVal -= e.value[v]
	e.cur[v] = false
	e.pairHead[p]--
	e.pairUsed[p] = false
	e.openSum += e.headValue(p)
}

func (e *bbEngine) skip(v int) {
	p := e.m.PairOf(v)
	if e.pairUsed[p] {
		e.pairHead[p]++
	} else {
		e.openSum -= e.headValue(p)
		e.pairHead[p]++
		e.openSum += e.headValue(p)
	}
	for _, l := range e.m.Links(v) {
		if l.Coef < 0 {
			e.negFree[l.Row]++
		}
	}
}

func (e *bbEngine) unskip(v int) {
	p := e.m.PairOf(v)
	for _, l := range e.m.Links(v) {
		if l.Coef < 0 {
			e.negFree[l.Row]--
		}
	}
	if e.pairUsed[p] {
		e.pairHead[p]--
	} else {
		e.openSum -= e.headValue(p)
		e.pairHead[p]--
		e.openSum += e.headValue(p)
	}
}

// dfs decides variable order[depth]. Pruning: bound ≤ incumbent + eps.
func (e *bbEngine) dfs(depth int) {
	if e.checkStop() {
		return
	}
	if e.curVal+e.openSum <= e.bestVal+e.eps {
		return
	}
	if depth == e.n {
		copy(e.best, e.cur)
		e.bestVal = e.curVal
		return
	}

	v := e.order[depth]
	if !e.pairUsed[e.m.PairOf(v)] && e.worthTaking(v) && e.canTake(v) {
		e.take(v)
		e.dfs(depth + 1)
		e.untake(v)
		if e.stopped != Optimal {
			return
		}
	}
	if e.canSkip(v) {
		e.skip(v)
		e.dfs(depth + 1)
		e.unskip(v)
	}
}
