package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
	Multiplier:   2.0,
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "08000", "08003", "08006", "08001", "08004", "08007", "08P01":
			return true
		case CodeSerializationFailure, CodeDeadlockDetected:
			return true
		case "55P03":
			return true
		}
	}
	return false
}

// RetryWithBackoff reruns operation while it fails with a transient
// Postgres error.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, operation func() error) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				metrics.DBRetriesTotal.WithLabelValues("recovered").Inc()
				log.Infof("database operation succeeded after %d attempts", attempt)
			}
			return nil
		}

		lastErr = err
		if !IsRetryableError(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			break
		}

		metrics.DBRetriesTotal.WithLabelValues("retried").Inc()
		log.Warnf("database operation failed (attempt %d/%d): %v, retrying in %v", attempt, config.MaxAttempts, err, delay)

		select {
		case <-ctx.Done():
			metrics.DBRetriesTotal.WithLabelValues("aborted").Inc()
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	if config.MaxAttempts > 1 {
		metrics.DBRetriesTotal.WithLabelValues("exhausted").Inc()
	}
	return fmt.Errorf("database operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}
