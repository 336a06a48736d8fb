// Package store owns the persisted Provider and Appointment records. The
// UNIQUE constraint on (provider_id, start_time) is the authoritative
// double-booking guard; everything above it is a pre-check.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertResult distinguishes a committed insert from a uniqueness-constraint
// rejection so callers can map the latter deterministically to a conflict
// instead of interpreting raw driver errors.
type InsertResult int

const (
	// InsertFailed is the zero result accompanying a non-nil error.
	InsertFailed InsertResult = iota
	Inserted
	ConstraintViolated
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// postgres unique_violation
const uniqueViolationCode = "23505"

// slotTakenConstraint names the UNIQUE (provider_id, start_time) constraint
// from 001_init.sql. Only rejections on this constraint mean the slot is
// taken; a 23505 on another constraint (reference_number, id) is an ordinary
// error and must not be reported as a booking conflict.
const slotTakenConstraint = "uq_provider_start_time"

func isSlotTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == slotTakenConstraint
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
