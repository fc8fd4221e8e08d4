package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/tada/internal/observability/metrics"
)

const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// Op names a repository call for metrics and error messages.
type Op struct {
	Name  string
	Table string
}

func (o Op) observe(startTime time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(o.Name, o.Table).Observe(time.Since(startTime).Seconds())
}

func (o Op) countError(err error) {
	metrics.DBQueryErrors.WithLabelValues(o.Name, o.Table, SQLState(err)).Inc()
}

// SQLState returns the Postgres error code carried by err, or "other".
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code != "" {
		return pgErr.Code
	}
	return "other"
}

// HandleQueryError maps pgx.ErrNoRows to notFoundErr and wraps anything else.
func HandleQueryError(err error, notFoundErr error, op Op, startTime time.Time) error {
	op.observe(startTime)

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	op.countError(err)
	return fmt.Errorf("failed to %s: %w", op.Name, err)
}

func HandleExecError(err error, op Op, startTime time.Time) error {
	op.observe(startTime)

	if err == nil {
		return nil
	}
	op.countError(err)
	return fmt.Errorf("failed to %s: %w", op.Name, err)
}

func IsUniqueViolation(err error) bool {
	return hasCode(err, CodeUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, CodeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	return SQLState(err) == code
}
