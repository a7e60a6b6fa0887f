// Package snapshot builds the in-memory view of groups and pending transfer
// requests that a single optimization run works on.
//
// The data-access collaborator (see package store) returns raw rows:
//
//	GroupRecord     one seat group of an elective, with its current occupancy.
//	TransferRecord  one pending transfer request.
//	LinkRecord      one transfer↔group association with a FROM/TO role.
//
// Build resolves the association rows into per-request FromGroups/ToGroups
// lists and returns plain value types (Group, Request). Index produces the
// group_info table keyed by group id.
//
// Lifecycle:
//   - A snapshot is read fresh at the start of a run and discarded after it.
//   - Nothing in this package writes back to storage.
//   - Clone returns a deep copy; concurrent runs must each own one.
//
// Edge cases:
//   - A request with no resolvable groups keeps empty (non-nil) lists. It puts
//     no pressure on capacities but still takes part in the uniqueness rule.
//   - Groups that no request references stay in the group list and are inert.
//   - Requests may reference groups that are not in the group list; those ids
//     are reported by MissingGroups and are never an error here.
package snapshot
