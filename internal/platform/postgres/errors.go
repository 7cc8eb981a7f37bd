package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Error is the driver-neutral view of a server-side PostgreSQL error.
type Error struct {
	Code       string
	Message    string
	Column     string
	Constraint string
}

// AsError extracts server error details from either supported driver.
func AsError(err error) (Error, bool) {
	if err == nil {
		return Error{}, false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return Error{
			Code:       pgErr.Code,
			Message:    pgErr.Message,
			Column:     pgErr.ColumnName,
			Constraint: pgErr.ConstraintName,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return Error{
			Code:       string(pqErr.Code),
			Message:    pqErr.Message,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
		}, true
	}
	return Error{}, false
}

// IsNotNullViolation reports SQLSTATE 23502.
func (e Error) IsNotNullViolation() bool { return e.Code == "23502" }
