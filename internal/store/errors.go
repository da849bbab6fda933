package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by repositories. Callers match with errors.Is.
var (
	// ErrEmailTaken is returned when a user insert hits the unique
	// constraint on email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a user lookup matches no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrEntryNotFound is returned when a mood entry does not exist for the
	// given owner. An entry owned by another user yields the same error.
	ErrEntryNotFound = errors.New("mood entry not found")

	// ErrEntryDateConflict is returned when an update would move an entry
	// onto a date that already has one for the same user.
	ErrEntryDateConflict = errors.New("an entry already exists for that date")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (error class 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
