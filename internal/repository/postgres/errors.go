package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/MessBoT/internal/repository"
)

// Postgres SQLSTATE codes translated into repository errors
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateError maps constraint violations onto repository sentinels so
// callers can match them with errors.Is.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w (%s)", repository.ErrDuplicate, pqErr.Constraint)
	case foreignKeyViolation:
		return fmt.Errorf("%w (%s)", repository.ErrForeignKey, pqErr.Constraint)
	default:
		return err
	}
}

// dateParam formats a day key for a DATE column
func dateParam(day time.Time) string {
	return day.Format("2006-01-02")
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
