package snapshot

import (
	"sort"

	"github.com/samber/lo"
)

// Build turns loader rows into the groups and requests of one snapshot.
//
// Each transfer's link rows are split by role into FromGroups and ToGroups,
// deduplicated with link order kept. Links with an unknown role or pointing at
// a transfer that is not in transfers are ignored. The result is validated
// with Validate before it is returned.
func Build(groups []GroupRecord, transfers []TransferRecord, links []LinkRecord) ([]Group, []Request, error) {
	outGroups := lo.Map(groups, func(g GroupRecord, _ int) Group {
		return Group{
			ID:         g.ID,
			ElectiveID: g.ElectiveID,
			Name:       g.Name,
			Type:       g.Type,
			Capacity:   g.Capacity,
			InitUsage:  g.InitUsage,
		}
	})

	from := make(map[int64][]int64, len(transfers))
	to := make(map[int64][]int64, len(transfers))
	for _, l := range links {
		switch ParseRole(l.Role) {
		case RoleFrom:
			from[l.TransferID] = append(from[l.TransferID], l.GroupID)
		case RoleTo:
			to[l.TransferID] = append(to[l.TransferID], l.GroupID)
		}
	}

	requests := make([]Request, 0, len(transfers))
	for _, t := range transfers {
		requests = append(requests, Request{
			ID:             t.ID,
			StudentID:      t.StudentID,
			FromElectiveID: t.FromElectiveID,
			ToElectiveID:   t.ToElectiveID,
			Priority:       t.Priority,
			CreatedAt:      t.CreatedAt,
			FromGroups:     lo.Uniq(from[t.ID]),
			ToGroups:       lo.Uniq(to[t.ID]),
		})
	}

	if err := Validate(outGroups, requests); err != nil {
		return nil, nil, err
	}

	return outGroups, requests, nil
}

// Build is a shorthand for Build(r.Groups, r.Transfers, r.Links).
func (r Records) Build() ([]Group, []Request, error) {
	return Build(r.Groups, r.Transfers, r.Links)
}

// Index returns the group_info table keyed by group id.
// Later duplicates overwrite earlier ones; run Validate first to reject them.
func Index(groups []Group) map[int64]GroupInfo {
	info := make(map[int64]GroupInfo, len(groups))
	for _, g := range groups {
		info[g.ID] = GroupInfo{
			ElectiveID: g.ElectiveID,
			Name:       g.Name,
			Capacity:   g.Capacity,
			InitUsage:  g.InitUsage,
		}
	}

	return info
}

// MissingGroups returns, in ascending order, the ids referenced by some
// request that do not appear in groups.
func MissingGroups(groups []Group, requests []Request) []int64 {
	known := lo.SliceToMap(groups, func(g Group) (int64, struct{}) {
		return g.ID, struct{}{}
	})

	missing := make(map[int64]struct{})
	for _, r := range requests {
		for _, id := range r.FromGroups {
			if _, ok := known[id]; !ok {
				missing[id] = struct{}{}
			}
		}
		for _, id := range r.ToGroups {
			if _, ok := known[id]; !ok {
				missing[id] = struct{}{}
			}
		}
	}

	out := lo.Keys(missing)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Clone returns deep copies of groups and requests. Group-id slices of the
// copies never alias the inputs; nil lists become empty lists.
func Clone(groups []Group, requests []Request) ([]Group, []Request) {
	g := make([]Group, len(groups))
	copy(g, groups)

	r := make([]Request, len(requests))
	for i, req := range requests {
		req.FromGroups = append(make([]int64, 0, len(req.FromGroups)), req.FromGroups...)
		req.ToGroups = append(make([]int64, 0, len(req.ToGroups)), req.ToGroups...)
		r[i] = req
	}

	return g, r
}
