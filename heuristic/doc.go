// Package heuristic provides the non-exact strategies for the transfer
// assignment model: a deterministic greedy pass, simulated annealing and a
// genetic search.
//
// All three produce feasible solutions:
//   - Greedy accepts requests in preference order through model.Tracker, so
//     it can never break a constraint.
//   - Annealing and genetic search explore arbitrary bit vectors and project
//     every candidate back with repair.InPlace before scoring it.
//
// Determinism:
//   - Every random decision comes from a math/rand source seeded by the
//     options (Seed==0 selects a fixed default seed). Equal options on an
//     equal model give equal results, including with concurrent restarts or
//     workers.
//
// Cutoffs:
//   - Iteration/generation caps are always honoured.
//   - TimeLimit > 0 adds a wall-clock deadline, checked between iterations.
//     When it fires the best solution found so far is returned.
//
// Like the model, this package does not log.
package heuristic
