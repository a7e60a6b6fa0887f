// Package generator builds synthetic elective catalogs and ranked transfer
// requests for tests, benchmarks and local experiments.
//
// Catalog: Electives electives, each with GroupsPerType groups of every type
// in GroupTypes, all with the same Capacity. Every student is enrolled in one
// elective and takes one group of each type there, preferring groups with a
// free seat.
//
// Requests: every student ranks up to MaxTargets other electives. The k-th
// choice gets priority k, vacates all of the student's current groups and
// enters one random group of each type in the target elective. CreatedAt is
// drawn uniformly from the Window before Now.
//
// Output is a pure function of Config.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/katalvlaran/transferopt/snapshot"
)

// ErrBadConfig is returned when Config fails validation.
var ErrBadConfig = errors.New("generator: invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config drives Generate.
type Config struct {
	Electives     int           `validate:"gte=2"`
	GroupTypes    []string      `validate:"min=1,unique,dive,required"`
	GroupsPerType int           `validate:"gte=1"`
	Capacity      int           `validate:"gte=1"`
	Students      int           `validate:"gte=0"`
	MaxTargets    int           `validate:"gte=1"`
	Window        time.Duration `validate:"gte=0"`
	Now           time.Time
	Seed          int64
}

// DefaultConfig returns a small catalog that fills roughly two thirds of the seats.
func DefaultConfig() Config {
	return Config{
		Electives:     6,
		GroupTypes:    []string{"lecture", "practice"},
		GroupsPerType: 2,
		Capacity:      15,
		Students:      120,
		MaxTargets:    3,
		Window:        14 * 24 * time.Hour,
		Now:           time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC),
		Seed:          1,
	}
}

// Dataset is one generated snapshot plus the enrollments behind InitUsage.
type Dataset struct {
	Groups      []snapshot.Group
	Requests    []snapshot.Request
	Enrollments []snapshot.EnrollmentRecord
}

type slot struct {
	elective int64
	kind     string
}

// Generate builds a dataset from cfg.
func Generate(cfg Config) (Dataset, error) {
	if err := validate.Struct(cfg); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	var ds Dataset
	for e := 1; e <= cfg.Electives; e++ {
		for _, kind := range cfg.GroupTypes {
			for k := 1; k <= cfg.GroupsPerType; k++ {
				ds.Groups = append(ds.Groups, snapshot.Group{
					ID:         int64(len(ds.Groups) + 1),
					ElectiveID: int64(e),
					Name:       fmt.Sprintf("E%d-%s-%d", e, kind, k),
					Type:       kind,
					Capacity:   cfg.Capacity,
				})
			}
		}
	}

	// Positions into ds.Groups, so occupancy updates hit the real entries.
	bySlot := lo.GroupBy(lo.Range(len(ds.Groups)), func(i int) slot {
		return slot{elective: ds.Groups[i].ElectiveID, kind: ds.Groups[i].Type}
	})

	for s := 1; s <= cfg.Students; s++ {
		student := int64(s)
		home := int64(1 + rng.Intn(cfg.Electives))

		current := make([]int64, 0, len(cfg.GroupTypes))
		for _, kind := range cfg.GroupTypes {
			candidates := bySlot[slot{home, kind}]
			free := lo.Filter(candidates, func(i int, _ int) bool {
				return ds.Groups[i].InitUsage < ds.Groups[i].Capacity
			})
			if len(free) > 0 {
				candidates = free
			}
			gi := candidates[rng.Intn(len(candidates))]
			ds.Groups[gi].InitUsage++
			current = append(current, ds.Groups[gi].ID)
			ds.Enrollments = append(ds.Enrollments, snapshot.EnrollmentRecord{StudentID: student, GroupID: ds.Groups[gi].ID})
		}

		targets := lo.Filter(rng.Perm(cfg.Electives), func(e int, _ int) bool { return int64(e+1) != home })
		n := min(1+rng.Intn(cfg.MaxTargets), len(targets))
		for rank, e := range targets[:n] {
			target := int64(e + 1)
			to := make([]int64, 0, len(cfg.GroupTypes))
			for _, kind := range cfg.GroupTypes {
				candidates := bySlot[slot{target, kind}]
				to = append(to, ds.Groups[candidates[rng.Intn(len(candidates))]].ID)
			}

			created := cfg.Now
			if cfg.Window > 0 {
				created = created.Add(-time.Duration(rng.Int63n(int64(cfg.Window))))
			}

			ds.Requests = append(ds.Requests, snapshot.Request{
				ID:             int64(len(ds.Requests) + 1),
				StudentID:      student,
				FromElectiveID: home,
				ToElectiveID:   target,
				Priority:       rank + 1,
				CreatedAt:      created,
				FromGroups:     append([]int64(nil), current...),
				ToGroups:       to,
			})
		}
	}

	return ds, nil
}

// Records converts the dataset into loader rows with every transfer pending.
func (d Dataset) Records() snapshot.Records {
	rec := snapshot.Records{
		Groups: lo.Map(d.Groups, func(g snapshot.Group, _ int) snapshot.GroupRecord {
			return snapshot.GroupRecord{
				ID:         g.ID,
				ElectiveID: g.ElectiveID,
				Name:       g.Name,
				Type:       g.Type,
				Capacity:   g.Capacity,
				InitUsage:  g.InitUsage,
			}
		}),
		Enrollments: append([]snapshot.EnrollmentRecord(nil), d.Enrollments...),
	}

	for _, r := range d.Requests {
		rec.Transfers = append(rec.Transfers, snapshot.TransferRecord{
			ID:             r.ID,
			StudentID:      r.StudentID,
			FromElectiveID: r.FromElectiveID,
			ToElectiveID:   r.ToElectiveID,
			Status:         "pending",
			Priority:       r.Priority,
			CreatedAt:      r.CreatedAt,
		})
		for _, g := range r.FromGroups {
			rec.Links = append(rec.Links, snapshot.LinkRecord{TransferID: r.ID, GroupID: g, Role: string(snapshot.RoleFrom)})
		}
		for _, g := range r.ToGroups {
			rec.Links = append(rec.Links, snapshot.LinkRecord{TransferID: r.ID, GroupID: g, Role: string(snapshot.RoleTo)})
		}
	}

	return rec
}
