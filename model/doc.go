// Package model turns a snapshot into the 0/1 program every strategy solves.
//
// One binary variable per request (x_i = 1 means "accept"). The model holds:
//
//   - Values: value_i = max(0, PriorityCeiling − priority_i) + bonus(age_i),
//     bonus(a) = MaxTimeBonus·(1 − exp(−a·TimeScale/MaxTimeBonus)).
//     The bonus grows with the request's age (measured against the newest
//     request of the batch), has slope TimeScale near zero and never reaches
//     MaxTimeBonus, so it only separates requests of equal priority.
//   - Capacity rows: one per group referenced by at least one request and
//     present in the group table,
//     InitUsage + Σ admits − Σ vacates ≤ Capacity
//     whenever at least one accepted request enters the group. A group
//     already above capacity is left alone while nobody enters it, so the
//     empty assignment is always feasible. A request listing a group both as
//     FROM and TO nets to zero on that row.
//   - Uniqueness rows: one per (student, source elective) pair,
//     Σ x_i ≤ 1 over the pair's requests.
//
// Referenced groups that are not in the group table are recorded in
// MissingGroups and impose no constraint.
//
// Solutions are []bool in model order (the order of the request slice given
// to New). Tracker simulates usage incrementally and is the single place where
// the capacity and uniqueness checks are implemented for constructive
// algorithms.
//
// The package is pure: no logging, no globals, no panics on user input.
package model
