package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 1
	PasswordMaxLength  = 72
	TodoTitleMaxLength = 255
	RoleMaxLength      = 32
	MaxRolesPerUser    = 16

	DefaultPageIndex      = 0
	DefaultPageSize       = 20
	MaxPageSize           = 100
	DefaultMaxRequestSize = 1 << 20

	DefaultBcryptCost = 12

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second

	DefaultWeatherAPIURL  = "https://api.openweathermap.org/data/2.5/weather"
	DefaultWeatherTimeout = 5 * time.Second
	WeatherMaxBodySize    = 1 << 20

	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerReset     = 30 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitRegisterRequestsPerSecond = 0.2
	RateLimitRegisterBurst             = 5
	RateLimitPasswordRequestsPerSecond = 0.5
	RateLimitPasswordBurst             = 5
	RateLimitGeneralRequestsPerSecond  = 20
	RateLimitGeneralBurst              = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
