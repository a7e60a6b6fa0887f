// Package transferopt decides which pending elective transfer requests a
// university can accept without overfilling any group.
//
// 🚀 What is transferopt?
//
//	A pure-Go optimizer for the "who gets to switch electives" problem:
//		• Capacity: no group ends above its limit once everyone moves
//		• Uniqueness: one accepted transfer per student and source elective
//		• Preference: higher-ranked and older requests are worth more
//		• Four strategies: exact branch-and-bound, greedy, annealing, genetic
//
// ✨ Why transferopt?
//
//   - Exact by default: the branch-and-bound solver is warm-started by
//     greedy, so it is never worse than greedy even under a time limit
//   - Deterministic: seeded heuristics, stable ordering, rounded objectives
//   - Safe to share: every run works on its own copy of the snapshot
//
// Packages:
//
//	snapshot/   loader rows → Group/Request values, validation, cloning
//	model/      value function, capacity & uniqueness rows, usage tracker
//	repair/     shared projection of any assignment onto the feasible set
//	ilp/        exact 0/1 branch-and-bound
//	heuristic/  greedy, simulated annealing, genetic search
//	optimizer/  Solve / Compare entry points, logging, run ids
//	generator/  synthetic catalogs and ranked requests
//	store/      sqlite snapshot loader (sqlx)
//	cmd/transferopt  operator CLI: solve, compare, generate
//
// Quick example:
//
//	res, err := optimizer.Solve(groups, requests, optimizer.WithTimeLimit(5*time.Second))
//	// res.AcceptedRequestIDs → requests to approve
//
//	go install github.com/katalvlaran/transferopt/cmd/transferopt@latest
package transferopt
