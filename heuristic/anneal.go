package heuristic

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/katalvlaran/transferopt/model"
	"github.com/katalvlaran/transferopt/repair"
)

// Anneal runs simulated annealing over repaired bit vectors.
//
// Each chain starts from the all-rejected solution. A move flips one random
// request, repairs the result and scores it; the move is taken when it does
// not lose value, or with probability exp(Δ/T) otherwise. T starts at
// InitialTemp and is multiplied by Cooling after every move. The best
// solution seen by any chain is returned (ties: lowest chain index).
//
// Chains run concurrently, each on its own RNG stream derived from Seed.
//
// Complexity: O(Restarts · Iterations · (n + Σ links)).
func Anneal(m *model.Model, opts AnnealingOptions) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if m.Len() == 0 {
		return Result{Solution: model.Solution{}}, nil
	}

	var (
		rngs        = chainRands(opts.Seed, opts.Restarts)
		results     = make([]Result, opts.Restarts)
		stop, timed = deadline(opts.TimeLimit)
		wg          sync.WaitGroup
	)
	for c := range rngs {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			results[c] = annealChain(m, opts, rngs[c], stop, timed)
		}(c)
	}
	wg.Wait()

	best := results[0]
	total := best.Iterations
	for _, r := range results[1:] {
		total += r.Iterations
		if r.Objective > best.Objective+objectiveEps {
			best = r
		}
	}
	best.Iterations = total

	return best, nil
}

func annealChain(m *model.Model, opts AnnealingOptions, rng *rand.Rand, stop time.Time, timed bool) Result {
	var (
		n       = m.Len()
		cur     = make(model.Solution, n)
		cand    = make(model.Solution, n)
		best    = make(model.Solution, n)
		curVal  float64
		bestVal float64
		temp    = opts.InitialTemp
		it      int
	)

	for it = 0; it < opts.Iterations && temp >= opts.MinTemp; it++ {
		if timed && it&255 == 0 && timeUp(stop) {
			break
		}

		copy(cand, cur)
		k := rng.Intn(n)
		cand[k] = !cand[k]
		repair.InPlace(m, cand)

		val := m.Objective(cand)
		delta := val - curVal
		if delta >= 0 || rng.Float64() < math.Exp(delta/temp) {
			cur, cand = cand, cur
			curVal = val
			if curVal > bestVal+objectiveEps {
				copy(best, cur)
				bestVal = curVal
			}
		}
		temp *= opts.Cooling
	}

	return Result{Solution: best, Objective: m.Objective(best), Iterations: it}
}
