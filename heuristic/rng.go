package heuristic

import "math/rand"

// fallbackSeed is used when the options leave Seed at zero.
const fallbackSeed int64 = 1

// searchRand returns the RNG a genetic run draws its initial population,
// parents, crossover points and mutations from. It is owned by the calling
// goroutine; evaluator workers never see it.
func searchRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = fallbackSeed
	}

	return rand.New(rand.NewSource(seed))
}

// chainRands returns one RNG per annealing chain. Chain c is seeded from
// (seed, c) alone, so adding restarts never changes what earlier chains do.
func chainRands(seed int64, chains int) []*rand.Rand {
	if seed == 0 {
		seed = fallbackSeed
	}
	out := make([]*rand.Rand, chains)
	for c := range out {
		out[c] = rand.New(rand.NewSource(chainSeed(seed, uint64(c))))
	}

	return out
}

// chainSeed scrambles (seed, chain) with the SplitMix64 finalizer so that
// neighbouring chains start from unrelated states.
func chainSeed(seed int64, chain uint64) int64 {
	x := uint64(seed) + (chain+1)*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}
