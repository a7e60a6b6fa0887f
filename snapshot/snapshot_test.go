package snapshot_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/transferopt/snapshot"
)

// SnapshotSuite covers record resolution, cloning and validation.
type SnapshotSuite struct {
	suite.Suite
	groups    []snapshot.GroupRecord
	transfers []snapshot.TransferRecord
	links     []snapshot.LinkRecord
}

func (s *SnapshotSuite) SetupTest() {
	ts := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	s.groups = []snapshot.GroupRecord{
		{ID: 1, ElectiveID: 10, Name: "A-lec", Type: "lecture", Capacity: 2, InitUsage: 2},
		{ID: 2, ElectiveID: 20, Name: "B-lec", Type: "lecture", Capacity: 5, InitUsage: 0},
		{ID: 3, ElectiveID: 30, Name: "C-lec", Type: "lecture", Capacity: 1, InitUsage: 0},
	}
	s.transfers = []snapshot.TransferRecord{
		{ID: 100, StudentID: 7, FromElectiveID: 10, ToElectiveID: 20, Status: "pending", Priority: 1, CreatedAt: ts},
		{ID: 101, StudentID: 8, FromElectiveID: 10, ToElectiveID: 20, Status: "pending", Priority: 1, CreatedAt: ts},
		{ID: 102, StudentID: 9, FromElectiveID: 40, ToElectiveID: 30, Status: "pending", Priority: 2, CreatedAt: ts},
	}
	s.links = []snapshot.LinkRecord{
		{TransferID: 100, GroupID: 1, Role: "FROM"},
		{TransferID: 100, GroupID: 2, Role: "TO"},
		{TransferID: 100, GroupID: 2, Role: "to"}, // duplicate, lower-case role
		{TransferID: 101, GroupID: 1, Role: "FROM"},
		{TransferID: 101, GroupID: 2, Role: "TO"},
		{TransferID: 999, GroupID: 3, Role: "TO"},  // unknown transfer
		{TransferID: 100, GroupID: 3, Role: "SIDE"}, // unknown role
	}
}

// TestBuildResolvesLinks checks role split, dedup and the empty-lists edge case.
func (s *SnapshotSuite) TestBuildResolvesLinks() {
	groups, requests, err := snapshot.Build(s.groups, s.transfers, s.links)
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 3, "unreferenced groups stay in the list")
	require.Len(s.T(), requests, 3)

	require.Equal(s.T(), []int64{1}, requests[0].FromGroups)
	require.Equal(s.T(), []int64{2}, requests[0].ToGroups)
	require.Equal(s.T(), []int64{1}, requests[1].FromGroups)

	// Transfer 102 has no links at all.
	require.NotNil(s.T(), requests[2].FromGroups)
	require.NotNil(s.T(), requests[2].ToGroups)
	require.Empty(s.T(), requests[2].FromGroups)
	require.Empty(s.T(), requests[2].ToGroups)

	require.Equal(s.T(), snapshot.PairKey{StudentID: 7, ElectiveID: 10}, requests[0].Pair())
}

// TestRecordsBuild is the same resolution through the Records shorthand.
func (s *SnapshotSuite) TestRecordsBuild() {
	rec := snapshot.Records{Groups: s.groups, Transfers: s.transfers, Links: s.links}
	groups, requests, err := rec.Build()
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 3)
	require.Len(s.T(), requests, 3)
}

// TestIndex exposes group_info keyed by id.
func (s *SnapshotSuite) TestIndex() {
	groups, _, err := snapshot.Build(s.groups, nil, nil)
	require.NoError(s.T(), err)

	info := snapshot.Index(groups)
	require.Len(s.T(), info, 3)
	require.Equal(s.T(), snapshot.GroupInfo{ElectiveID: 10, Name: "A-lec", Capacity: 2, InitUsage: 2}, info[1])
}

// TestMissingGroups reports unknown ids sorted and deduplicated.
func (s *SnapshotSuite) TestMissingGroups() {
	groups, requests, err := snapshot.Build(s.groups, s.transfers, s.links)
	require.NoError(s.T(), err)
	require.Empty(s.T(), snapshot.MissingGroups(groups, requests))

	requests[2].ToGroups = []int64{77, 3, 42}
	requests[1].FromGroups = append(requests[1].FromGroups, 77)
	require.Equal(s.T(), []int64{42, 77}, snapshot.MissingGroups(groups, requests))
}

// TestCloneIsDeep ensures mutating a clone never leaks into the source.
func (s *SnapshotSuite) TestCloneIsDeep() {
	groups, requests, err := snapshot.Build(s.groups, s.transfers, s.links)
	require.NoError(s.T(), err)

	g2, r2 := snapshot.Clone(groups, requests)
	g2[0].InitUsage = 99
	r2[0].ToGroups[0] = 99
	r2[0].FromGroups = append(r2[0].FromGroups, 5)

	require.Equal(s.T(), 2, groups[0].InitUsage)
	require.Equal(s.T(), []int64{2}, requests[0].ToGroups)
	require.Equal(s.T(), []int64{1}, requests[0].FromGroups)
}

// TestValidateSentinels covers every rejection path.
func (s *SnapshotSuite) TestValidateSentinels() {
	cases := []struct {
		name     string
		groups   []snapshot.Group
		requests []snapshot.Request
		want     error
	}{
		{"negative capacity", []snapshot.Group{{ID: 1, Capacity: -1}}, nil, snapshot.ErrInvalidRecord},
		{"negative usage", []snapshot.Group{{ID: 1, InitUsage: -3}}, nil, snapshot.ErrInvalidRecord},
		{"zero group id", []snapshot.Group{{ID: 0}}, nil, snapshot.ErrInvalidRecord},
		{"zero request id", nil, []snapshot.Request{{ID: 0}}, snapshot.ErrInvalidRecord},
		{"negative priority", nil, []snapshot.Request{{ID: 1, Priority: -1}}, snapshot.ErrInvalidRecord},
		{"zero priority", nil, []snapshot.Request{{ID: 1}}, snapshot.ErrInvalidRecord},
		{"duplicate group", []snapshot.Group{{ID: 1}, {ID: 1}}, nil, snapshot.ErrDuplicateGroup},
		{"duplicate request", nil, []snapshot.Request{{ID: 5, Priority: 1}, {ID: 5, Priority: 2}}, snapshot.ErrDuplicateRequest},
	}
	for _, tc := range cases {
		err := snapshot.Validate(tc.groups, tc.requests)
		require.Truef(s.T(), errors.Is(err, tc.want), "%s: got %v", tc.name, err)
	}

	require.NoError(s.T(), snapshot.Validate(nil, nil))
}

// TestBuildRejectsDuplicates surfaces validation through Build.
func (s *SnapshotSuite) TestBuildRejectsDuplicates() {
	dup := append(s.transfers, s.transfers[0])
	_, _, err := snapshot.Build(s.groups, dup, s.links)
	require.ErrorIs(s.T(), err, snapshot.ErrDuplicateRequest)
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotSuite))
}

func TestParseRole(t *testing.T) {
	require.Equal(t, snapshot.RoleFrom, snapshot.ParseRole(" from "))
	require.Equal(t, snapshot.RoleTo, snapshot.ParseRole("TO"))
	require.Equal(t, snapshot.Role(""), snapshot.ParseRole("both"))
}
