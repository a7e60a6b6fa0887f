package ilp

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/transferopt/model"
)

// Sentinel errors.
var (
	// ErrInfeasible is returned when the root problem has no feasible
	// assignment. The empty assignment always satisfies a well-formed model,
	// so this indicates a modeling defect, never a data condition.
	ErrInfeasible = errors.New("ilp: model admits no feasible assignment")

	// ErrBadOptions is returned for negative limits or a non-finite Eps.
	ErrBadOptions = errors.New("ilp: invalid options")
)

// Status tells how the search ended.
type Status int

const (
	// Optimal means the search space was exhausted.
	Optimal Status = iota

	// TimeLimit means the wall-clock budget ran out; the incumbent is returned.
	TimeLimit

	// NodeLimit means the node budget ran out; the incumbent is returned.
	NodeLimit
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case TimeLimit:
		return "time_limit"
	case NodeLimit:
		return "node_limit"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Options configures Solve.
type Options struct {
	// TimeLimit bounds wall-clock search time; 0 disables it.
	TimeLimit time.Duration

	// NodeLimit bounds the number of search nodes; 0 disables it.
	NodeLimit int

	// Eps is the minimal objective gain that counts as an improvement.
	Eps float64

	// WarmStart seeds the incumbent with the greedy solution.
	WarmStart bool
}

// DefaultOptions returns a 10s budget with greedy warm start.
func DefaultOptions() Options {
	return Options{
		TimeLimit: 10 * time.Second,
		Eps:       1e-9,
		WarmStart: true,
	}
}

func (o Options) validate() error {
	switch {
	case o.TimeLimit < 0:
		return fmt.Errorf("%w: TimeLimit=%v", ErrBadOptions, o.TimeLimit)
	case o.NodeLimit < 0:
		return fmt.Errorf("%w: NodeLimit=%d", ErrBadOptions, o.NodeLimit)
	case math.IsNaN(o.Eps) || math.IsInf(o.Eps, 0) || o.Eps < 0:
		return fmt.Errorf("%w: Eps=%v", ErrBadOptions, o.Eps)
	}

	return nil
}

// Outcome is the result of Solve.
type Outcome struct {
	Solution  model.Solution
	Objective float64
	Status    Status

	// Nodes is the number of search nodes visited.
	Nodes int
}
