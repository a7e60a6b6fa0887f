package snapshot

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints on every group and request and rejects
// duplicate ids. It does not check that referenced groups exist.
//
// Errors (wrapped, test with errors.Is):
//   - ErrInvalidRecord    non-positive id or priority, negative capacity or occupancy.
//   - ErrDuplicateGroup   two groups share an id.
//   - ErrDuplicateRequest two requests share an id.
func Validate(groups []Group, requests []Request) error {
	seenGroups := make(map[int64]struct{}, len(groups))
	for i := range groups {
		g := &groups[i]
		if err := validate.Struct(g); err != nil {
			return fmt.Errorf("%w: group %d: %v", ErrInvalidRecord, g.ID, err)
		}
		if _, dup := seenGroups[g.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateGroup, g.ID)
		}
		seenGroups[g.ID] = struct{}{}
	}

	seenRequests := make(map[int64]struct{}, len(requests))
	for i := range requests {
		r := &requests[i]
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("%w: request %d: %v", ErrInvalidRecord, r.ID, err)
		}
		if _, dup := seenRequests[r.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateRequest, r.ID)
		}
		seenRequests[r.ID] = struct{}{}
	}

	return nil
}
