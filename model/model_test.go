package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/transferopt/model"
	"github.com/katalvlaran/transferopt/snapshot"
)

var t0 = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

// scenario returns the two-group swap: A (cap 2, full) and B (cap 5, empty),
// two students each leaving A for B.
func scenario() ([]snapshot.Group, []snapshot.Request) {
	groups := []snapshot.Group{
		{ID: 1, ElectiveID: 10, Capacity: 2, InitUsage: 2},
		{ID: 2, ElectiveID: 20, Capacity: 5, InitUsage: 0},
	}
	requests := []snapshot.Request{
		{ID: 11, StudentID: 1, FromElectiveID: 10, ToElectiveID: 20, Priority: 1, CreatedAt: t0,
			FromGroups: []int64{1}, ToGroups: []int64{2}},
		{ID: 12, StudentID: 2, FromElectiveID: 10, ToElectiveID: 20, Priority: 1, CreatedAt: t0,
			FromGroups: []int64{1}, ToGroups: []int64{2}},
	}

	return groups, requests
}

func TestValue(t *testing.T) {
	p := model.DefaultParams()

	require.Equal(t, 5.0, model.Value(1, 0, p))
	require.Equal(t, 1.0, model.Value(5, 0, p))
	require.Equal(t, 0.0, model.Value(6, 0, p))
	require.Equal(t, 0.0, model.Value(9, 0, p), "base value floors at zero")

	day := model.TimeBonus(24*time.Hour, p)
	week := model.TimeBonus(7*24*time.Hour, p)
	require.InDelta(t, 0.1*(1-math.Exp(-1)), day, 1e-12)
	require.Greater(t, week, day, "bonus grows with age")
	require.LessOrEqual(t, model.TimeBonus(10000*24*time.Hour, p), p.MaxTimeBonus)
	require.Equal(t, 0.0, model.TimeBonus(-time.Hour, p))

	// Near zero the slope is TimeScale.
	require.InDelta(t, p.TimeScale, model.TimeBonus(time.Second, p), 1e-10)

	// Any age bonus stays below one priority step.
	require.Less(t, model.Value(2, 1000*24*time.Hour, p), model.Value(1, 0, p))
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, model.DefaultParams().Validate())

	bad := []model.Params{
		{PriorityCeiling: 0, TimeScale: 1, MaxTimeBonus: 0.1},
		{PriorityCeiling: math.NaN(), TimeScale: 1, MaxTimeBonus: 0.1},
		{PriorityCeiling: 6, TimeScale: -1, MaxTimeBonus: 0.1},
		{PriorityCeiling: 6, TimeScale: math.Inf(1), MaxTimeBonus: 0.1},
		{PriorityCeiling: 6, TimeScale: 1, MaxTimeBonus: 1},
	}
	for _, p := range bad {
		require.ErrorIs(t, p.Validate(), model.ErrBadParams, "%+v", p)
		_, err := model.New(nil, nil, p)
		require.ErrorIs(t, err, model.ErrBadParams)
	}
}

func TestNewBuildsRows(t *testing.T) {
	groups, requests := scenario()
	m, err := model.New(groups, requests, model.DefaultParams())
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	require.Len(t, m.Rows, 2)
	require.Equal(t, int64(1), m.Rows[0].GroupID)
	require.Equal(t, []int{0, 1}, m.Rows[0].Vacates)
	require.Empty(t, m.Rows[0].Admits)
	require.Equal(t, []int{0, 1}, m.Rows[1].Admits)
	require.Equal(t, 2, m.Rows[0].Capacity)
	require.False(t, m.Rows[0].OverFull())
	require.Len(t, m.Pairs, 2)
	require.Empty(t, m.MissingGroups)

	// Equal timestamps: no age bonus.
	require.Equal(t, 5.0, m.Value(0))

	sol := model.Solution{true, true}
	require.True(t, m.Feasible(sol))
	require.Equal(t, 10.0, m.Objective(sol))
	require.Equal(t, map[int64]int{1: 0, 2: 2}, m.Usage(sol))
	require.Equal(t, []int64{11, 12}, m.AcceptedIDs(sol))
}

func TestNewEdgeCases(t *testing.T) {
	groups := []snapshot.Group{
		{ID: 1, Capacity: 1, InitUsage: 3}, // already over capacity
		{ID: 2, Capacity: 4, InitUsage: 0}, // never referenced
		{ID: 3, Capacity: 1, InitUsage: 1},
	}
	requests := []snapshot.Request{
		// Same group on both sides nets to zero on row 3.
		{ID: 1, StudentID: 1, FromElectiveID: 5, Priority: 1, FromGroups: []int64{3}, ToGroups: []int64{3, 1}},
		// Unknown group 99 is skipped and reported.
		{ID: 2, StudentID: 2, FromElectiveID: 5, Priority: 1, ToGroups: []int64{99}},
		// No groups at all.
		{ID: 3, StudentID: 3, FromElectiveID: 5, Priority: 2, FromGroups: []int64{}, ToGroups: []int64{}},
	}
	m, err := model.New(groups, requests, model.DefaultParams())
	require.NoError(t, err)

	require.Equal(t, []int64{99}, m.MissingGroups)
	require.Len(t, m.Rows, 2, "rows only for referenced known groups")

	r1, ok := m.RowOf(1)
	require.True(t, ok)
	require.True(t, m.Rows[r1].OverFull())
	_, ok = m.RowOf(2)
	require.False(t, ok)

	r3, ok := m.RowOf(3)
	require.True(t, ok)
	require.Empty(t, m.Rows[r3].Admits)
	require.Empty(t, m.Rows[r3].Vacates)

	require.True(t, m.Feasible(make(model.Solution, 3)), "empty assignment is feasible")
	require.False(t, m.Feasible(model.Solution{true, false, false}), "admitting into over-full group")
	require.True(t, m.Feasible(model.Solution{false, true, true}))
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	requests := []snapshot.Request{{ID: 1, StudentID: 1}, {ID: 1, StudentID: 2}}
	_, err := model.New(nil, requests, model.DefaultParams())
	require.ErrorIs(t, err, model.ErrDuplicateRequest)
}

func TestAgesUseNewestRequest(t *testing.T) {
	requests := []snapshot.Request{
		{ID: 1, StudentID: 1, Priority: 1, CreatedAt: t0.Add(-48 * time.Hour)},
		{ID: 2, StudentID: 2, Priority: 1, CreatedAt: t0},
		{ID: 3, StudentID: 3, Priority: 1}, // no timestamp
	}
	m, err := model.New(nil, requests, model.DefaultParams())
	require.NoError(t, err)

	require.Equal(t, 48*time.Hour, m.Ages[0])
	require.Equal(t, time.Duration(0), m.Ages[1])
	require.Equal(t, time.Duration(0), m.Ages[2])
	require.Greater(t, m.Value(0), m.Value(1))
	require.Equal(t, m.Value(1), m.Value(2))
}

func TestViolations(t *testing.T) {
	groups := []snapshot.Group{{ID: 1, Capacity: 1}}
	requests := []snapshot.Request{
		{ID: 1, StudentID: 1, FromElectiveID: 5, Priority: 1, ToGroups: []int64{1}},
		{ID: 2, StudentID: 1, FromElectiveID: 5, Priority: 2, ToGroups: []int64{1}},
		{ID: 3, StudentID: 2, FromElectiveID: 5, Priority: 1, ToGroups: []int64{1}},
	}
	m, err := model.New(groups, requests, model.DefaultParams())
	require.NoError(t, err)

	v, err := m.Violations(model.Solution{true, true, true})
	require.NoError(t, err)
	require.Len(t, v, 2)
	require.Equal(t, model.CapacityViolation, v[0].Kind)
	require.Equal(t, 2, v[0].Excess)
	require.Equal(t, model.UniquenessViolation, v[1].Kind)
	require.Equal(t, snapshot.PairKey{StudentID: 1, ElectiveID: 5}, v[1].Pair)

	_, err = m.Violations(model.Solution{true})
	require.ErrorIs(t, err, model.ErrSolutionSize)
	require.False(t, m.Feasible(model.Solution{true}))

	sol, err := m.SolutionOf([]int64{3})
	require.NoError(t, err)
	require.Equal(t, model.Solution{false, false, true}, sol)
	_, err = m.SolutionOf([]int64{42})
	require.ErrorIs(t, err, model.ErrUnknownRequest)
}

func TestTracker(t *testing.T) {
	groups := []snapshot.Group{{ID: 1, Capacity: 1}, {ID: 2, Capacity: 1, InitUsage: 1}}
	requests := []snapshot.Request{
		{ID: 1, StudentID: 1, FromElectiveID: 5, ToGroups: []int64{1}},
		{ID: 2, StudentID: 1, FromElectiveID: 5, ToGroups: []int64{1}},
		{ID: 3, StudentID: 2, FromElectiveID: 6, ToGroups: []int64{1}},
		{ID: 4, StudentID: 3, FromElectiveID: 6, FromGroups: []int64{2}},
	}
	m, err := model.New(groups, requests, model.DefaultParams())
	require.NoError(t, err)

	tr := m.Tracker()
	require.True(t, tr.CanAdmit(0))
	tr.Admit(0)
	require.False(t, tr.CanAdmit(0), "already accepted")
	require.False(t, tr.CanAdmit(1), "pair settled")
	require.False(t, tr.CanAdmit(2), "group 1 full")

	u, ok := tr.Usage(1)
	require.True(t, ok)
	require.Equal(t, 1, u)

	tr.Admit(3)
	u, _ = tr.Usage(2)
	require.Equal(t, 0, u)

	tr.Release(0)
	require.True(t, tr.CanAdmit(2))
	require.Equal(t, model.Solution{false, false, false, true}, tr.Solution())

	loaded, err := m.TrackerFor(model.Solution{true, true, true, false})
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Excess(0))

	_, err = m.TrackerFor(nil)
	require.ErrorIs(t, err, model.ErrSolutionSize)
}

// overFull: group 1 holds 3 students for 2 seats. Requests 1 and 3 leave it,
// request 2 enters it.
func overFull(t *testing.T) *model.Model {
	groups := []snapshot.Group{{ID: 1, Capacity: 2, InitUsage: 3}}
	requests := []snapshot.Request{
		{ID: 1, StudentID: 1, FromElectiveID: 5, Priority: 5, CreatedAt: t0, FromGroups: []int64{1}},
		{ID: 2, StudentID: 2, FromElectiveID: 6, Priority: 1, CreatedAt: t0, ToGroups: []int64{1}},
		{ID: 3, StudentID: 3, FromElectiveID: 5, Priority: 5, CreatedAt: t0, FromGroups: []int64{1}},
	}
	m, err := model.New(groups, requests, model.DefaultParams())
	require.NoError(t, err)

	return m
}

func TestOverFullGroup(t *testing.T) {
	m := overFull(t)

	feasible := []model.Solution{
		{false, false, false},
		{true, false, false},
		{true, false, true},
		{true, true, true}, // 3 − 2 + 1 = 2 seats used
	}
	for _, sol := range feasible {
		require.True(t, m.Feasible(sol), "%v", sol)
	}

	// Entering while the group stays above capacity.
	v, err := m.Violations(model.Solution{true, true, false})
	require.NoError(t, err)
	require.Len(t, v, 1)
	require.Equal(t, model.CapacityViolation, v[0].Kind)
	require.Equal(t, int64(1), v[0].GroupID)
	require.Equal(t, 1, v[0].Excess)
	require.False(t, m.Feasible(model.Solution{false, true, false}))

	tr := m.Tracker()
	require.Equal(t, 0, tr.Excess(0), "nobody entered yet")
	require.False(t, tr.CanAdmit(1), "no free seat in an over-full group")
	tr.Admit(0)
	require.False(t, tr.CanAdmit(1), "one leaver is not enough")
	tr.Admit(2)
	require.True(t, tr.CanAdmit(1))
	tr.Admit(1)
	require.Equal(t, 0, tr.Excess(0))
	tr.Release(2)
	require.Equal(t, 1, tr.Excess(0))
	tr.Release(1)
	require.Equal(t, 0, tr.Excess(0))
}
