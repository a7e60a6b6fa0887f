// Package ilp solves the transfer assignment model exactly with a depth-first
// branch-and-bound over its 0/1 variables.
//
// Formulation (built by package model):
//
//	maximize   Σ value_i · x_i
//	subject to InitUsage_g + Σ_{i admits g} x_i − Σ_{i vacates g} x_i ≤ Limit_g   (capacity)
//	           Σ_{i ∈ pair} x_i ≤ 1                                              (uniqueness)
//	           x_i ∈ {0, 1}
//
// Search:
//  1. Variables are branched in descending value order (index tiebreak),
//     trying x=1 before x=0.
//  2. Row propagation: every capacity row tracks its fixed usage and the
//     seats that undecided vacating requests could still free. A branch is
//     entered only while each row can still be satisfied.
//  3. Bound: current value plus, for every uniqueness row without an
//     accepted request, the value of its best undecided request. The bound
//     never underestimates a completion, so pruning at bound ≤ incumbent+Eps
//     keeps optimality.
//  4. The incumbent starts at the empty assignment and, with WarmStart, at
//     the greedy solution when that is better. The result is therefore never
//     worse than greedy, even after a cutoff.
//
// Cutoffs:
//   - TimeLimit: wall clock, checked every 1024 nodes.
//   - NodeLimit: number of search nodes.
//
// When a cutoff fires the incumbent is returned with Status TimeLimit or
// NodeLimit and a nil error; Optimal means the search space was exhausted.
//
// Complexity: exponential in the worst case; O(n + Σ links) memory.
package ilp
