package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/transferopt/snapshot"
)

// Sentinel errors.
var (
	// ErrBadParams is returned when value-function parameters are non-finite or out of range.
	ErrBadParams = errors.New("model: invalid value parameters")

	// ErrDuplicateRequest is returned by New when two requests share an id.
	ErrDuplicateRequest = errors.New("model: duplicate request id")

	// ErrSolutionSize is returned when a solution does not have one entry per request.
	ErrSolutionSize = errors.New("model: solution length does not match model")

	// ErrUnknownRequest is returned when a request id is not part of the model.
	ErrUnknownRequest = errors.New("model: unknown request id")
)

// Default value-function constants.
const (
	DefaultPriorityCeiling = 6.0
	DefaultTimeScale       = 0.1 / (24 * 3600) // per second
	DefaultMaxTimeBonus    = 0.1
)

// Params configures the value function.
type Params struct {
	// PriorityCeiling minus the priority is the base value; priorities at or
	// above the ceiling have base value zero.
	PriorityCeiling float64

	// TimeScale is the bonus slope near age zero, in value units per second.
	TimeScale float64

	// MaxTimeBonus bounds the age bonus from above. Keep it below 1 so that the
	// bonus never outweighs one priority step.
	MaxTimeBonus float64
}

// DefaultParams returns the production constants.
func DefaultParams() Params {
	return Params{
		PriorityCeiling: DefaultPriorityCeiling,
		TimeScale:       DefaultTimeScale,
		MaxTimeBonus:    DefaultMaxTimeBonus,
	}
}

// Validate reports whether p can be used by New.
func (p Params) Validate() error {
	switch {
	case !finite(p.PriorityCeiling) || p.PriorityCeiling <= 0:
		return fmt.Errorf("%w: PriorityCeiling=%v", ErrBadParams, p.PriorityCeiling)
	case !finite(p.TimeScale) || p.TimeScale < 0:
		return fmt.Errorf("%w: TimeScale=%v", ErrBadParams, p.TimeScale)
	case !finite(p.MaxTimeBonus) || p.MaxTimeBonus < 0 || p.MaxTimeBonus >= 1:
		return fmt.Errorf("%w: MaxTimeBonus=%v", ErrBadParams, p.MaxTimeBonus)
	}

	return nil
}

// Solution holds one accept flag per request, in model order.
type Solution []bool

// Clone returns an independent copy of s.
func (s Solution) Clone() Solution {
	out := make(Solution, len(s))
	copy(out, s)

	return out
}

// Count returns the number of accepted requests.
func (s Solution) Count() int {
	n := 0
	for _, x := range s {
		if x {
			n++
		}
	}

	return n
}

// Link is one non-zero coefficient of a variable in a capacity row.
// Coef is +1 when the request enters the row's group and −1 when it leaves it.
type Link struct {
	Row  int
	Coef int
}

// Row is a capacity constraint. Once any accepted request enters the group,
// final usage must not exceed Capacity. A group that is already over capacity
// may stay that way only while nobody enters it.
type Row struct {
	GroupID   int64
	Capacity  int
	InitUsage int
	Admits    []int // variables with coefficient +1, ascending
	Vacates   []int // variables with coefficient −1, ascending
}

// OverFull reports whether the group starts above its capacity.
func (r Row) OverFull() bool { return r.InitUsage > r.Capacity }

// excess returns usage − Capacity when admitted > 0 and 0 otherwise.
func (r Row) excess(usage, admitted int) int {
	if admitted == 0 {
		return 0
	}

	return usage - r.Capacity
}

// ViolationKind names the constraint family a Violation belongs to.
type ViolationKind string

const (
	CapacityViolation   ViolationKind = "capacity"
	UniquenessViolation ViolationKind = "uniqueness"
)

// Violation describes one broken constraint of a solution.
//
// For capacity violations GroupID is set and Excess is usage − capacity.
// For uniqueness violations Pair is set and Excess is accepted − 1.
type Violation struct {
	Kind    ViolationKind
	GroupID int64
	Pair    snapshot.PairKey
	Excess  int
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
