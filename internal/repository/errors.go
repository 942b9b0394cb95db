package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate reports a unique constraint violation on insert.
	ErrDuplicate = errors.New("duplicate row")
	// ErrCapacityReached reports that an event has no free seats left.
	ErrCapacityReached = errors.New("event capacity reached")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
