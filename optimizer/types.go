package optimizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/transferopt/heuristic"
	"github.com/katalvlaran/transferopt/model"
)

// Sentinel errors.
var (
	// ErrUnsupportedAlgorithm is returned for an unknown algorithm name.
	ErrUnsupportedAlgorithm = errors.New("optimizer: unsupported algorithm")

	// ErrInfeasibleResult is returned when a strategy produced an assignment
	// that breaks a constraint. It always indicates a bug in that strategy.
	ErrInfeasibleResult = errors.New("optimizer: strategy returned an infeasible assignment")

	// ErrBadOptions is returned for negative limits.
	ErrBadOptions = errors.New("optimizer: invalid options")
)

// Algorithm selects a strategy.
type Algorithm string

const (
	ILP       Algorithm = "ilp"
	Greedy    Algorithm = "greedy"
	Annealing Algorithm = "annealing"
	Genetic   Algorithm = "genetic"
)

// Algorithms lists every supported algorithm, exact solver first.
func Algorithms() []Algorithm {
	return []Algorithm{ILP, Greedy, Annealing, Genetic}
}

// ParseAlgorithm accepts an algorithm name in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Algorithms() {
		if a == known {
			return a, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

// Status tells how a run ended.
type Status string

const (
	// StatusOptimal: the exact solver proved optimality.
	StatusOptimal Status = "optimal"

	// StatusSuboptimal: the exact solver hit a cutoff and returned its incumbent.
	StatusSuboptimal Status = "suboptimal"

	// StatusHeuristic: a heuristic produced the result; optimality is unknown.
	StatusHeuristic Status = "heuristic"

	// StatusNoRequests: there was nothing to decide.
	StatusNoRequests Status = "no_requests"
)

// Result is what Solve returns to the caller.
type Result struct {
	RunID              string        `json:"run_id"`
	Algorithm          Algorithm     `json:"algorithm"`
	Status             Status        `json:"status"`
	Objective          float64       `json:"objective"`
	AcceptedRequestIDs []int64       `json:"accepted_request_ids"`
	Elapsed            time.Duration `json:"elapsed_ns"`
	Nodes              int           `json:"nodes,omitempty"`
	MissingGroups      []int64       `json:"missing_groups,omitempty"`
}

// Options configures Solve and Compare.
type Options struct {
	Algorithm Algorithm

	// TimeLimit bounds the exact search and, when positive, every heuristic.
	TimeLimit time.Duration

	// NodeLimit bounds the exact search; 0 means unlimited.
	NodeLimit int

	// Seed drives every heuristic; 0 selects a fixed default.
	Seed int64

	Params    model.Params
	Annealing heuristic.AnnealingOptions
	Genetic   heuristic.GeneticOptions

	Logger *zap.Logger
}

// Option is a functional option for Solve and Compare.
type Option func(*Options)

// DefaultOptions returns the exact solver with a 10s budget, production
// value constants, default heuristic settings and a no-op logger.
func DefaultOptions() Options {
	return Options{
		Algorithm: ILP,
		TimeLimit: 10 * time.Second,
		Params:    model.DefaultParams(),
		Annealing: heuristic.DefaultAnnealingOptions(),
		Genetic:   heuristic.DefaultGeneticOptions(),
		Logger:    zap.NewNop(),
	}
}

// WithAlgorithm selects the strategy.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) { o.Algorithm = a }
}

// WithTimeLimit sets the wall-clock budget; 0 disables it.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithNodeLimit bounds the exact search.
func WithNodeLimit(n int) Option {
	return func(o *Options) { o.NodeLimit = n }
}

// WithSeed fixes the heuristic random streams.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithParams overrides the value-function constants.
func WithParams(p model.Params) Option {
	return func(o *Options) { o.Params = p }
}

// WithAnnealing overrides the annealing settings. Seed and TimeLimit are
// still taken from the top-level options.
func WithAnnealing(a heuristic.AnnealingOptions) Option {
	return func(o *Options) { o.Annealing = a }
}

// WithGenetic overrides the genetic settings. Seed and TimeLimit are still
// taken from the top-level options.
func WithGenetic(g heuristic.GeneticOptions) Option {
	return func(o *Options) { o.Genetic = g }
}

// WithLogger sets the logger; nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.Logger = l
	}
}

func (o Options) validate() error {
	switch {
	case o.TimeLimit < 0:
		return fmt.Errorf("%w: TimeLimit=%v", ErrBadOptions, o.TimeLimit)
	case o.NodeLimit < 0:
		return fmt.Errorf("%w: NodeLimit=%d", ErrBadOptions, o.NodeLimit)
	}

	return o.Params.Validate()
}
