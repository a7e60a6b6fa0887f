package optimizer

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/transferopt/model"
	"github.com/katalvlaran/transferopt/snapshot"
)

// Solve decides which pending requests to accept.
//
// Contracts:
//   - groups and requests are validated and deep-copied; the caller keeps
//     ownership and may reuse them concurrently.
//   - An empty request list returns StatusNoRequests without building a model.
//   - The accepted ids always satisfy every capacity and uniqueness
//     constraint; a strategy that breaks one yields ErrInfeasibleResult.
//   - Requests referencing unknown groups are solved without those groups'
//     constraints; the ids are logged and returned in Result.MissingGroups.
//
// Errors: ErrBadOptions, ErrUnsupportedAlgorithm, snapshot validation
// sentinels, ilp.ErrInfeasible (wrapped), ErrInfeasibleResult.
func Solve(groups []snapshot.Group, requests []snapshot.Request, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return solve(groups, requests, o)
}

// Compare runs several algorithms on the same input concurrently, each on its
// own copy of the snapshot. Results are returned in the order of algorithms;
// errors of individual runs are joined.
func Compare(groups []snapshot.Group, requests []snapshot.Request, algorithms []Algorithm, opts ...Option) ([]Result, error) {
	base := DefaultOptions()
	for _, fn := range opts {
		fn(&base)
	}
	if len(algorithms) == 0 {
		algorithms = Algorithms()
	}

	var (
		results = make([]Result, len(algorithms))
		errs    = make([]error, len(algorithms))
		wg      sync.WaitGroup
	)
	for i, a := range algorithms {
		wg.Add(1)
		go func(i int, a Algorithm) {
			defer wg.Done()
			o := base
			o.Algorithm = a
			results[i], errs[i] = solve(groups, requests, o)
		}(i, a)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

func solve(groups []snapshot.Group, requests []snapshot.Request, o Options) (Result, error) {
	runID := uuid.NewString()
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", runID), zap.String("algorithm", string(o.Algorithm)))

	if err := o.validate(); err != nil {
		return Result{}, err
	}
	strategy, err := NewStrategy(o)
	if err != nil {
		return Result{}, err
	}

	if len(requests) == 0 {
		log.Info("no pending requests")
		return Result{
			RunID:              runID,
			Algorithm:          o.Algorithm,
			Status:             StatusNoRequests,
			AcceptedRequestIDs: []int64{},
		}, nil
	}

	if err = snapshot.Validate(groups, requests); err != nil {
		return Result{}, fmt.Errorf("optimizer: %w", err)
	}
	g, r := snapshot.Clone(groups, requests)

	start := time.Now()
	m, err := model.New(g, r, o.Params)
	if err != nil {
		return Result{}, fmt.Errorf("optimizer: %w", err)
	}
	if len(m.MissingGroups) > 0 {
		log.Warn("requests reference unknown groups, their capacity is not enforced",
			zap.Int64s("group_ids", m.MissingGroups))
	}
	log.Debug("model built",
		zap.Int("requests", m.Len()),
		zap.Int("capacity_rows", len(m.Rows)),
		zap.Int("pairs", len(m.Pairs)))

	out, err := strategy.Solve(m)
	if err != nil {
		log.Error("strategy failed", zap.Error(err))
		return Result{}, fmt.Errorf("optimizer: %s: %w", o.Algorithm, err)
	}
	if !m.Feasible(out.Solution) {
		violations, _ := m.Violations(out.Solution)
		log.Error("strategy returned an infeasible assignment", zap.Int("violations", len(violations)))
		return Result{}, fmt.Errorf("%w: %s", ErrInfeasibleResult, o.Algorithm)
	}

	res := Result{
		RunID:              runID,
		Algorithm:          o.Algorithm,
		Status:             out.Status,
		Objective:          round1e9(m.Objective(out.Solution)),
		AcceptedRequestIDs: m.AcceptedIDs(out.Solution),
		Elapsed:            time.Since(start),
		Nodes:              out.Nodes,
		MissingGroups:      m.MissingGroups,
	}
	if res.Status == StatusSuboptimal {
		log.Warn("exact search stopped at a cutoff, returning incumbent",
			zap.Duration("time_limit", o.TimeLimit), zap.Int("node_limit", o.NodeLimit))
	}
	log.Info("optimization finished",
		zap.String("status", string(res.Status)),
		zap.Float64("objective", res.Objective),
		zap.Int("accepted", len(res.AcceptedRequestIDs)),
		zap.Int("requests", m.Len()),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

// round1e9 stabilizes objectives against summation-order noise.
func round1e9(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}
