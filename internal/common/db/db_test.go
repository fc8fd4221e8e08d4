package db

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Errorf("expected matching up/down migrations, got %d up and %d down", ups, downs)
	}
}

func TestMigrations_TodosCascadeOnUserDelete(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000002_create_todos.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(data), "ON DELETE CASCADE") {
		t.Error("todos.user_id must cascade on user delete")
	}
}

func TestHandleQueryError(t *testing.T) {
	notFound := errors.New("not found")
	op := Op{Name: "find user", Table: "users"}

	if err := HandleQueryError(nil, notFound, op, time.Now()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := HandleQueryError(pgx.ErrNoRows, notFound, op, time.Now()); !errors.Is(err, notFound) {
		t.Errorf("expected notFound, got %v", err)
	}

	boom := errors.New("boom")
	err := HandleQueryError(boom, notFound, op, time.Now())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "find user") {
		t.Errorf("expected operation in message, got %q", err.Error())
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: CodeUniqueViolation}) {
		t.Error("expected unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: CodeForeignKeyViolation}) {
		t.Error("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Error("plain error is not a unique violation")
	}
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2}
	attempts := 0
	retried := counterValue(t, metrics.DBRetriesTotal.WithLabelValues("retried"))
	recovered := counterValue(t, metrics.DBRetriesTotal.WithLabelValues("recovered"))

	err := RetryWithBackoff(context.Background(), logger.Discard(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: CodeSerializationFailure}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if got := counterValue(t, metrics.DBRetriesTotal.WithLabelValues("retried")) - retried; got != 2 {
		t.Errorf("expected 2 retries counted, got %v", got)
	}
	if got := counterValue(t, metrics.DBRetriesTotal.WithLabelValues("recovered")) - recovered; got != 1 {
		t.Errorf("expected 1 recovery counted, got %v", got)
	}
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2}
	attempts := 0
	permanent := &pgconn.PgError{Code: CodeUniqueViolation}

	err := RetryWithBackoff(context.Background(), logger.Discard(), cfg, func() error {
		attempts++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2}
	exhausted := counterValue(t, metrics.DBRetriesTotal.WithLabelValues("exhausted"))

	err := RetryWithBackoff(context.Background(), logger.Discard(), cfg, func() error {
		return &pgconn.PgError{Code: CodeDeadlockDetected}
	})

	if err == nil || !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("expected give-up error, got %v", err)
	}
	if got := counterValue(t, metrics.DBRetriesTotal.WithLabelValues("exhausted")) - exhausted; got != 1 {
		t.Errorf("expected exhaustion counted once, got %v", got)
	}
}

func TestSQLState(t *testing.T) {
	if got := SQLState(&pgconn.PgError{Code: CodeForeignKeyViolation}); got != CodeForeignKeyViolation {
		t.Errorf("expected %s, got %s", CodeForeignKeyViolation, got)
	}
	if got := SQLState(errors.New("conn reset")); got != "other" {
		t.Errorf("expected other, got %s", got)
	}
}
