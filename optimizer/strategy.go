package optimizer

import (
	"fmt"

	"github.com/katalvlaran/transferopt/heuristic"
	"github.com/katalvlaran/transferopt/ilp"
	"github.com/katalvlaran/transferopt/model"
)

// Outcome is a strategy's raw answer before the optimizer re-checks it.
type Outcome struct {
	Solution model.Solution
	Status   Status
	Nodes    int
}

// Strategy is one way of solving a model.
type Strategy interface {
	Algorithm() Algorithm
	Solve(m *model.Model) (Outcome, error)
}

// NewStrategy returns the strategy selected by o.Algorithm, configured from o.
func NewStrategy(o Options) (Strategy, error) {
	switch o.Algorithm {
	case ILP:
		opts := ilp.DefaultOptions()
		opts.TimeLimit = o.TimeLimit
		opts.NodeLimit = o.NodeLimit

		return ilpStrategy{opts: opts}, nil

	case Greedy:
		return greedyStrategy{}, nil

	case Annealing:
		opts := o.Annealing
		opts.Seed = o.Seed
		opts.TimeLimit = o.TimeLimit

		return annealingStrategy{opts: opts}, nil

	case Genetic:
		opts := o.Genetic
		opts.Seed = o.Seed
		opts.TimeLimit = o.TimeLimit

		return geneticStrategy{opts: opts}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, o.Algorithm)
	}
}

type ilpStrategy struct{ opts ilp.Options }

func (ilpStrategy) Algorithm() Algorithm { return ILP }

func (s ilpStrategy) Solve(m *model.Model) (Outcome, error) {
	out, err := ilp.Solve(m, s.opts)
	if err != nil {
		return Outcome{}, err
	}
	status := StatusOptimal
	if out.Status != ilp.Optimal {
		status = StatusSuboptimal
	}

	return Outcome{Solution: out.Solution, Status: status, Nodes: out.Nodes}, nil
}

type greedyStrategy struct{}

func (greedyStrategy) Algorithm() Algorithm { return Greedy }

func (greedyStrategy) Solve(m *model.Model) (Outcome, error) {
	return Outcome{Solution: heuristic.Greedy(m).Solution, Status: StatusHeuristic}, nil
}

type annealingStrategy struct{ opts heuristic.AnnealingOptions }

func (annealingStrategy) Algorithm() Algorithm { return Annealing }

func (s annealingStrategy) Solve(m *model.Model) (Outcome, error) {
	res, err := heuristic.Anneal(m, s.opts)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Solution: res.Solution, Status: StatusHeuristic, Nodes: res.Iterations}, nil
}

type geneticStrategy struct{ opts heuristic.GeneticOptions }

func (geneticStrategy) Algorithm() Algorithm { return Genetic }

func (s geneticStrategy) Solve(m *model.Model) (Outcome, error) {
	res, err := heuristic.Evolve(m, s.opts)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Solution: res.Solution, Status: StatusHeuristic, Nodes: res.Iterations}, nil
}
