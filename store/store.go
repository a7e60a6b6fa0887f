// Package store reads optimization snapshots from the enrollment database.
//
// Tables (see Schema): elective, "group", student, student_group, transfer,
// transfer_group. Group occupancy is not stored; it is counted from
// student_group at load time. Only transfers with status "pending" are
// loaded.
//
// The loader never writes transfers back. Import exists to seed local and
// test databases with generated fixtures.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/samber/lo"

	"github.com/katalvlaran/transferopt/snapshot"
)

// ErrEmptyDSN is returned by Open when no data source is given.
var ErrEmptyDSN = errors.New("store: empty data source name")

// StatusPending marks a transfer that still waits for a decision.
const StatusPending = "pending"

// Schema creates every table the loader reads.
const Schema = `
CREATE TABLE IF NOT EXISTS elective (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS "group" (
	id          INTEGER PRIMARY KEY,
	elective_id INTEGER NOT NULL REFERENCES elective(id),
	name        TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT '',
	capacity    INTEGER NOT NULL CHECK (capacity >= 0)
);
CREATE TABLE IF NOT EXISTS student (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS student_group (
	student_id INTEGER NOT NULL REFERENCES student(id),
	group_id   INTEGER NOT NULL REFERENCES "group"(id),
	PRIMARY KEY (student_id, group_id)
);
CREATE TABLE IF NOT EXISTS transfer (
	id               INTEGER PRIMARY KEY,
	student_id       INTEGER NOT NULL REFERENCES student(id),
	from_elective_id INTEGER NOT NULL REFERENCES elective(id),
	to_elective_id   INTEGER NOT NULL REFERENCES elective(id),
	status           TEXT NOT NULL DEFAULT 'pending',
	priority         INTEGER NOT NULL,
	created_at       DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS transfer_group (
	transfer_id INTEGER NOT NULL REFERENCES transfer(id),
	group_id    INTEGER NOT NULL REFERENCES "group"(id),
	group_role  TEXT NOT NULL CHECK (group_role IN ('FROM', 'TO')),
	PRIMARY KEY (transfer_id, group_id, group_role)
);
`

const (
	selectGroups = `
SELECT g.id, g.elective_id, g.name, g.type, g.capacity, COUNT(sg.student_id) AS init_usage
FROM "group" g
LEFT JOIN student_group sg ON sg.group_id = g.id
GROUP BY g.id
ORDER BY g.id`

	selectTransfers = `
SELECT id, student_id, from_elective_id, to_elective_id, status, priority, created_at
FROM transfer
WHERE status = ?
ORDER BY id`

	selectLinks = `
SELECT tg.transfer_id, tg.group_id, tg.group_role
FROM transfer_group tg
JOIN transfer t ON t.id = tg.transfer_id
WHERE t.status = ?
ORDER BY tg.rowid`
)

// Store is a handle on one database.
type Store struct {
	db *sqlx.DB
}

// Open connects to a sqlite database, e.g. "file:transfers.db" or
// "file::memory:?cache=shared".
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	// One connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return New(db), nil
}

// New wraps an existing connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}

	return nil
}

// LoadRecords reads every group, pending transfer and link of a pending
// transfer. Occupancy is counted in SQL into GroupRecord.InitUsage, so
// Records.Enrollments is left empty.
func (s *Store) LoadRecords(ctx context.Context) (snapshot.Records, error) {
	var rec snapshot.Records
	if err := s.db.SelectContext(ctx, &rec.Groups, selectGroups); err != nil {
		return snapshot.Records{}, fmt.Errorf("store: load groups: %w", err)
	}
	if err := s.db.SelectContext(ctx, &rec.Transfers, selectTransfers, StatusPending); err != nil {
		return snapshot.Records{}, fmt.Errorf("store: load transfers: %w", err)
	}
	if err := s.db.SelectContext(ctx, &rec.Links, selectLinks, StatusPending); err != nil {
		return snapshot.Records{}, fmt.Errorf("store: load transfer groups: %w", err)
	}

	return rec, nil
}

// LoadSnapshot reads the records and builds the optimizer input from them.
func (s *Store) LoadSnapshot(ctx context.Context) ([]snapshot.Group, []snapshot.Request, error) {
	rec, err := s.LoadRecords(ctx)
	if err != nil {
		return nil, nil, err
	}

	return rec.Build()
}

// Import inserts fixture records in one transaction. GroupRecord.InitUsage is
// ignored; occupancy comes from rec.Enrollments.
func (s *Store) Import(ctx context.Context, rec snapshot.Records) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	electives := lo.Uniq(append(
		lo.Map(rec.Groups, func(g snapshot.GroupRecord, _ int) int64 { return g.ElectiveID }),
		lo.FlatMap(rec.Transfers, func(t snapshot.TransferRecord, _ int) []int64 {
			return []int64{t.FromElectiveID, t.ToElectiveID}
		})...,
	))
	for _, id := range electives {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO elective (id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("store: insert elective %d: %w", id, err)
		}
	}

	students := lo.Uniq(append(
		lo.Map(rec.Enrollments, func(e snapshot.EnrollmentRecord, _ int) int64 { return e.StudentID }),
		lo.Map(rec.Transfers, func(t snapshot.TransferRecord, _ int) int64 { return t.StudentID })...,
	))
	for _, id := range students {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO student (id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("store: insert student %d: %w", id, err)
		}
	}

	for _, g := range rec.Groups {
		if _, err = tx.NamedExecContext(ctx,
			`INSERT INTO "group" (id, elective_id, name, type, capacity) VALUES (:id, :elective_id, :name, :type, :capacity)`, g); err != nil {
			return fmt.Errorf("store: insert group %d: %w", g.ID, err)
		}
	}
	for _, e := range rec.Enrollments {
		if _, err = tx.NamedExecContext(ctx,
			`INSERT INTO student_group (student_id, group_id) VALUES (:student_id, :group_id)`, e); err != nil {
			return fmt.Errorf("store: insert enrollment %d/%d: %w", e.StudentID, e.GroupID, err)
		}
	}
	for _, t := range rec.Transfers {
		if t.Status == "" {
			t.Status = StatusPending
		}
		if _, err = tx.NamedExecContext(ctx,
			`INSERT INTO transfer (id, student_id, from_elective_id, to_elective_id, status, priority, created_at)
			 VALUES (:id, :student_id, :from_elective_id, :to_elective_id, :status, :priority, :created_at)`, t); err != nil {
			return fmt.Errorf("store: insert transfer %d: %w", t.ID, err)
		}
	}
	for _, l := range rec.Links {
		l.Role = string(snapshot.ParseRole(l.Role))
		if _, err = tx.NamedExecContext(ctx,
			`INSERT INTO transfer_group (transfer_id, group_id, group_role) VALUES (:transfer_id, :group_id, :group_role)`, l); err != nil {
			return fmt.Errorf("store: insert transfer group %d/%d: %w", l.TransferID, l.GroupID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}

	return nil
}
