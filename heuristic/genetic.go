package heuristic

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/mroth/weightedrand/v2"

	"github.com/katalvlaran/transferopt/model"
	"github.com/katalvlaran/transferopt/repair"
)

// fitnessScale converts objective values into integer selection weights.
const fitnessScale = 1000

type individual struct {
	sol model.Solution
	fit float64
}

func (ind individual) clone() individual {
	return individual{sol: ind.sol.Clone(), fit: ind.fit}
}

// Evolve runs a generational genetic search.
//
// Steps per generation:
//  1. Sort the population by fitness (objective of the repaired solution).
//  2. Copy the Elite best individuals unchanged.
//  3. Fill the rest with children: two parents drawn with probability
//     proportional to fitness, single-point crossover over the model order
//     (with probability CrossoverRate), per-bit mutation.
//  4. Repair and score the children concurrently on up to Workers goroutines.
//
// Every random draw happens on the calling goroutine, so results depend only
// on Seed. The best individual ever seen is returned.
//
// Complexity: O(Generations · Population · (n + Σ links)).
func Evolve(m *model.Model, opts GeneticOptions) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	n := m.Len()
	if n == 0 {
		return Result{Solution: model.Solution{}}, nil
	}

	var (
		rng         = searchRand(opts.Seed)
		mut         = opts.MutationRate
		stop, timed = deadline(opts.TimeLimit)
		pool        = evaluator{m: m, workers: opts.workers()}
		pop         = make([]individual, opts.Population)
	)
	if mut == 0 {
		mut = 1 / float64(n)
	}

	for i := range pop {
		sol := make(model.Solution, n)
		for j := range sol {
			sol[j] = rng.Float64() < opts.InitAcceptRate
		}
		pop[i].sol = sol
	}
	pool.evaluate(pop)
	best := fittest(pop).clone()

	gen := 0
	for ; gen < opts.Generations; gen++ {
		if timed && timeUp(stop) {
			break
		}

		sort.SliceStable(pop, func(a, b int) bool { return pop[a].fit > pop[b].fit })
		chooser, err := parentChooser(pop)
		if err != nil {
			return Result{}, err
		}

		next := make([]individual, opts.Population)
		for e := 0; e < opts.Elite; e++ {
			next[e] = pop[e].clone()
		}
		for i := opts.Elite; i < len(next); i += 2 {
			a := pop[chooser.PickSource(rng)]
			b := pop[chooser.PickSource(rng)]
			c1, c2 := crossover(a.sol, b.sol, opts.CrossoverRate, rng)
			mutate(c1, mut, rng)
			mutate(c2, mut, rng)
			next[i].sol = c1
			if i+1 < len(next) {
				next[i+1].sol = c2
			}
		}
		pool.evaluate(next[opts.Elite:])
		pop = next

		if f := fittest(pop); f.fit > best.fit+objectiveEps {
			best = f.clone()
		}
	}

	return Result{Solution: best.sol, Objective: m.Objective(best.sol), Iterations: gen}, nil
}

// parentChooser weights every individual by its scaled fitness plus one, so
// zero-fitness individuals can still be drawn.
func parentChooser(pop []individual) (*weightedrand.Chooser[int, int64], error) {
	choices := make([]weightedrand.Choice[int, int64], len(pop))
	for i, ind := range pop {
		choices[i] = weightedrand.NewChoice(i, int64(math.Round(ind.fit*fitnessScale))+1)
	}

	return weightedrand.NewChooser(choices...)
}

// crossover returns two children of a and b cut at one random point.
func crossover(a, b model.Solution, rate float64, rng *rand.Rand) (model.Solution, model.Solution) {
	c1, c2 := a.Clone(), b.Clone()
	if len(a) < 2 || rng.Float64() >= rate {
		return c1, c2
	}
	cut := 1 + rng.Intn(len(a)-1)
	copy(c1[cut:], b[cut:])
	copy(c2[cut:], a[cut:])

	return c1, c2
}

func mutate(s model.Solution, rate float64, rng *rand.Rand) {
	for i := range s {
		if rng.Float64() < rate {
			s[i] = !s[i]
		}
	}
}

// fittest returns the first individual with the highest fitness.
func fittest(pop []individual) individual {
	best := 0
	for i := 1; i < len(pop); i++ {
		if pop[i].fit > pop[best].fit {
			best = i
		}
	}

	return pop[best]
}

// evaluator repairs and scores individuals on a fixed number of goroutines.
// Worker k owns indices k, k+w, k+2w, ... so no two goroutines share a slice.
type evaluator struct {
	m       *model.Model
	workers int
}

func (e evaluator) evaluate(pop []individual) {
	w := min(e.workers, len(pop))
	if w <= 1 {
		for i := range pop {
			e.score(&pop[i])
		}
		return
	}

	var wg sync.WaitGroup
	for k := 0; k < w; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			for i := k; i < len(pop); i += w {
				e.score(&pop[i])
			}
		}(k)
	}
	wg.Wait()
}

func (e evaluator) score(ind *individual) {
	repair.InPlace(e.m, ind.sol)
	ind.fit = e.m.Objective(ind.sol)
}
