// Package optimizer is the single entry point of transferopt: it takes a
// snapshot of groups and pending transfer requests and returns the ids of
// the requests to accept.
//
// Pipeline:
//
//	snapshot (validated, deep-copied) → model.New → Strategy.Solve → feasibility re-check → Result
//
// Strategies:
//
//	ilp        exact branch-and-bound (authoritative)
//	greedy     preference-order admission
//	annealing  simulated annealing over repaired bit vectors
//	genetic    genetic search over repaired bit vectors
//
// Options follow the functional-options pattern:
//
//	res, err := optimizer.Solve(groups, requests,
//	    optimizer.WithAlgorithm(optimizer.ILP),
//	    optimizer.WithTimeLimit(5*time.Second),
//	    optimizer.WithLogger(logger),
//	)
//
// Logging: every run gets a run_id (UUID) attached to its zap fields. Runs
// log data-quality warnings (unknown groups), cutoffs and a summary line.
//
// Concurrency: Solve keeps no shared mutable state; it is safe to call from
// many goroutines. Compare uses that to run several strategies side by side.
package optimizer
