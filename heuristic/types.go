package heuristic

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/katalvlaran/transferopt/model"
)

// ErrBadOptions is returned when annealing or genetic options are out of range.
var ErrBadOptions = errors.New("heuristic: invalid options")

// Result is the outcome of a heuristic run.
type Result struct {
	Solution  model.Solution
	Objective float64

	// Iterations counts annealing steps or genetic generations actually run.
	Iterations int
}

// AnnealingOptions configures Anneal.
type AnnealingOptions struct {
	// Iterations caps the number of moves per chain.
	Iterations int

	// InitialTemp is the starting temperature; Cooling multiplies it after
	// every move. A chain stops once the temperature drops below MinTemp.
	InitialTemp float64
	Cooling     float64
	MinTemp     float64

	// Restarts runs that many independent chains concurrently and keeps the best.
	Restarts int

	Seed      int64
	TimeLimit time.Duration
}

// DefaultAnnealingOptions returns settings that cool from 2.0 to 1e-3 in
// roughly 15k moves.
func DefaultAnnealingOptions() AnnealingOptions {
	return AnnealingOptions{
		Iterations:  20000,
		InitialTemp: 2.0,
		Cooling:     0.9995,
		MinTemp:     1e-3,
		Restarts:    1,
	}
}

func (o AnnealingOptions) validate() error {
	switch {
	case o.Iterations < 0:
		return fmt.Errorf("%w: Iterations=%d", ErrBadOptions, o.Iterations)
	case !(o.InitialTemp > 0) || math.IsInf(o.InitialTemp, 0):
		return fmt.Errorf("%w: InitialTemp=%v", ErrBadOptions, o.InitialTemp)
	case !(o.Cooling > 0 && o.Cooling < 1):
		return fmt.Errorf("%w: Cooling=%v", ErrBadOptions, o.Cooling)
	case !(o.MinTemp >= 0) || o.MinTemp >= o.InitialTemp:
		return fmt.Errorf("%w: MinTemp=%v", ErrBadOptions, o.MinTemp)
	case o.Restarts < 1:
		return fmt.Errorf("%w: Restarts=%d", ErrBadOptions, o.Restarts)
	case o.TimeLimit < 0:
		return fmt.Errorf("%w: TimeLimit=%v", ErrBadOptions, o.TimeLimit)
	}

	return nil
}

// GeneticOptions configures Evolve.
type GeneticOptions struct {
	Population  int
	Generations int

	// MutationRate is the per-bit flip probability; 0 selects 1/n.
	MutationRate float64

	// CrossoverRate is the probability that a parent pair is recombined
	// rather than copied.
	CrossoverRate float64

	// InitAcceptRate is the probability that a bit of an initial individual is set.
	InitAcceptRate float64

	// Elite individuals are copied unchanged into the next generation.
	Elite int

	// Workers bounds the goroutines that repair and score offspring; 0 selects GOMAXPROCS.
	Workers int

	Seed      int64
	TimeLimit time.Duration
}

// DefaultGeneticOptions returns the production settings.
func DefaultGeneticOptions() GeneticOptions {
	return GeneticOptions{
		Population:     60,
		Generations:    200,
		CrossoverRate:  0.9,
		InitAcceptRate: 0.5,
		Elite:          2,
	}
}

func (o GeneticOptions) validate() error {
	switch {
	case o.Population < 2:
		return fmt.Errorf("%w: Population=%d", ErrBadOptions, o.Population)
	case o.Generations < 0:
		return fmt.Errorf("%w: Generations=%d", ErrBadOptions, o.Generations)
	case !(o.MutationRate >= 0 && o.MutationRate <= 1):
		return fmt.Errorf("%w: MutationRate=%v", ErrBadOptions, o.MutationRate)
	case !(o.CrossoverRate >= 0 && o.CrossoverRate <= 1):
		return fmt.Errorf("%w: CrossoverRate=%v", ErrBadOptions, o.CrossoverRate)
	case !(o.InitAcceptRate >= 0 && o.InitAcceptRate <= 1):
		return fmt.Errorf("%w: InitAcceptRate=%v", ErrBadOptions, o.InitAcceptRate)
	case o.Elite < 0 || o.Elite >= o.Population:
		return fmt.Errorf("%w: Elite=%d", ErrBadOptions, o.Elite)
	case o.Workers < 0:
		return fmt.Errorf("%w: Workers=%d", ErrBadOptions, o.Workers)
	case o.TimeLimit < 0:
		return fmt.Errorf("%w: TimeLimit=%v", ErrBadOptions, o.TimeLimit)
	}

	return nil
}

func (o GeneticOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// objectiveEps separates real improvements from float noise.
const objectiveEps = 1e-9

// deadline converts a time limit into an absolute deadline; ok is false when unlimited.
func deadline(limit time.Duration) (time.Time, bool) {
	if limit <= 0 {
		return time.Time{}, false
	}

	return time.Now().Add(limit), true
}

func timeUp(stop time.Time) bool { return time.Now().After(stop) }
