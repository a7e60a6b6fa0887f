package snapshot

import (
	"errors"
	"strings"
	"time"
)

// Sentinel errors returned by the snapshot builder and validator.
var (
	// ErrInvalidRecord indicates that a group or request failed field validation
	// (non-positive id, negative capacity or occupancy).
	ErrInvalidRecord = errors.New("snapshot: invalid record")

	// ErrDuplicateGroup indicates that two groups share the same id.
	ErrDuplicateGroup = errors.New("snapshot: duplicate group id")

	// ErrDuplicateRequest indicates that two requests share the same id.
	ErrDuplicateRequest = errors.New("snapshot: duplicate request id")
)

// Role tells whether a linked group is left (FROM) or entered (TO) by a transfer.
type Role string

const (
	// RoleFrom marks a group the student currently occupies in the source elective.
	RoleFrom Role = "FROM"

	// RoleTo marks a group the student wants to occupy in the target elective.
	RoleTo Role = "TO"
)

// ParseRole normalizes a stored role value. Unknown values yield "".
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleFrom:
		return RoleFrom
	case RoleTo:
		return RoleTo
	default:
		return ""
	}
}

// GroupRecord is a group row as loaded by the data-access layer.
// InitUsage is the number of students occupying the group before any transfer.
type GroupRecord struct {
	ID         int64  `db:"id"`
	ElectiveID int64  `db:"elective_id"`
	Name       string `db:"name"`
	Type       string `db:"type"`
	Capacity   int    `db:"capacity"`
	InitUsage  int    `db:"init_usage"`
}

// TransferRecord is a transfer row as loaded by the data-access layer.
type TransferRecord struct {
	ID             int64     `db:"id"`
	StudentID      int64     `db:"student_id"`
	FromElectiveID int64     `db:"from_elective_id"`
	ToElectiveID   int64     `db:"to_elective_id"`
	Status         string    `db:"status"`
	Priority       int       `db:"priority"`
	CreatedAt      time.Time `db:"created_at"`
}

// LinkRecord associates a transfer with one of its groups.
type LinkRecord struct {
	TransferID int64  `db:"transfer_id"`
	GroupID    int64  `db:"group_id"`
	Role       string `db:"group_role"`
}

// EnrollmentRecord places a student in a group. Loaders derive InitUsage from it.
type EnrollmentRecord struct {
	StudentID int64 `db:"student_id"`
	GroupID   int64 `db:"group_id"`
}

// Records bundles the rows of one snapshot. Enrollments are only written by
// fixture imports; loaders report occupancy through GroupRecord.InitUsage.
type Records struct {
	Groups      []GroupRecord
	Transfers   []TransferRecord
	Links       []LinkRecord
	Enrollments []EnrollmentRecord
}

// Group is one seat group of an elective.
type Group struct {
	ID         int64  `json:"id" validate:"gt=0"`
	ElectiveID int64  `json:"elective_id"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
	Capacity   int    `json:"capacity" validate:"gte=0"`
	InitUsage  int    `json:"init_usage" validate:"gte=0"`
}

// GroupInfo is the group_info entry used by the constraint model.
type GroupInfo struct {
	ElectiveID int64
	Name       string
	Capacity   int
	InitUsage  int
}

// Request is a normalized pending transfer.
//
// Priority follows the student's ranking: 1 is the most wanted transfer.
// FromGroups are the groups vacated in the source elective, ToGroups the
// groups entered in the target elective (at most one per group type).
type Request struct {
	ID             int64     `json:"id" validate:"gt=0"`
	StudentID      int64     `json:"student_id"`
	FromElectiveID int64     `json:"from_elective_id"`
	ToElectiveID   int64     `json:"to_elective_id"`
	Priority       int       `json:"priority" validate:"gt=0"`
	CreatedAt      time.Time `json:"created_at"`
	FromGroups     []int64   `json:"from_groups"`
	ToGroups       []int64   `json:"to_groups"`
}

// PairKey identifies the (student, source elective) pair a request belongs to.
// At most one request per pair may be accepted.
type PairKey struct {
	StudentID  int64
	ElectiveID int64
}

// Pair returns the uniqueness key of r.
func (r Request) Pair() PairKey {
	return PairKey{StudentID: r.StudentID, ElectiveID: r.FromElectiveID}
}
