package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlibekovAA/tada/internal/common/constants"
	"github.com/AlibekovAA/tada/internal/common/httpmetrics"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		cleanup:  time.NewTicker(constants.RateLimitCleanupInterval),
		done:     make(chan struct{}),
	}

	go rl.cleanupLimiters()

	return rl
}

func (rl *RateLimiter) cleanupLimiters() {
	for {
		select {
		case <-rl.done:
			return
		case now := <-rl.cleanup.C:
			rl.mu.Lock()
			for key, e := range rl.limiters {
				if now.Sub(e.lastSeen) > constants.RateLimitCleanupInterval {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanup.Stop()
		close(rl.done)
	})
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	rl.mu.Unlock()

	return e.limiter.Allow()
}

func (rl *RateLimiter) Middleware(limiterType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(GetClientIP(r)) {
				metrics.RateLimitBlocked.WithLabelValues(httpmetrics.NormalizePath(r.URL.Path), limiterType).Inc()
				w.Header().Set("Retry-After", "1")
				WriteError(w, r, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiters groups the buckets applied to the public surface: a strict
// one for registration, one for password changes and a general one.
type RateLimiters struct {
	Register *RateLimiter
	Password *RateLimiter
	General  *RateLimiter
}

func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		Register: NewRateLimiter(constants.RateLimitRegisterRequestsPerSecond, constants.RateLimitRegisterBurst),
		Password: NewRateLimiter(constants.RateLimitPasswordRequestsPerSecond, constants.RateLimitPasswordBurst),
		General:  NewRateLimiter(constants.RateLimitGeneralRequestsPerSecond, constants.RateLimitGeneralBurst),
	}
}

func (l *RateLimiters) RegisterMiddleware() func(http.Handler) http.Handler {
	return l.Register.Middleware("register")
}

func (l *RateLimiters) PasswordMiddleware() func(http.Handler) http.Handler {
	return l.Password.Middleware("password")
}

func (l *RateLimiters) GeneralMiddleware() func(http.Handler) http.Handler {
	return l.General.Middleware("general")
}

func (l *RateLimiters) Stop() {
	l.Register.Stop()
	l.Password.Stop()
	l.General.Stop()
}
