package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// Errors holds the domain errors a repository substitutes for driver errors.
// A nil field leaves the matching driver error unchanged.
type Errors struct {
	NotFound   error
	Duplicate  error
	Constraint error
}

// MapError translates database errors into domain errors.
// sql.ErrNoRows maps to NotFound, a unique violation to Duplicate, and a
// check constraint violation to Constraint. The domain error wraps the
// original so the constraint detail stays available for logging.
func MapError(err error, domain Errors) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && domain.NotFound != nil {
		return domain.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && domain.Duplicate != nil:
			return errors.Join(domain.Duplicate, err)
		case pgErr.Code == pgCheckViolation && domain.Constraint != nil:
			return errors.Join(domain.Constraint, err)
		}
	}

	return err
}
