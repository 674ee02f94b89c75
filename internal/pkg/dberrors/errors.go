package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Unique constraint names declared in migrations/001_init.sql
const (
	ConstraintAccountUsername = "accounts_username_key"
	ConstraintAccountEmail    = "accounts_email_key"
	ConstraintClubSlug        = "clubs_slug_key"
	ConstraintClubAccount     = "clubs_account_id_key"
)

const uniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return UniqueConstraint(err) == constraintName && constraintName != ""
}

// UniqueConstraint returns the name of the violated unique constraint, or "" when
// err is not a unique violation.
func UniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// IsNoRows reports whether a single-row query found nothing
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
