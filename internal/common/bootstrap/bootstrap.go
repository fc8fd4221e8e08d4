package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tada/internal/access"
	"github.com/AlibekovAA/tada/internal/api"
	"github.com/AlibekovAA/tada/internal/common/clock"
	"github.com/AlibekovAA/tada/internal/common/config"
	"github.com/AlibekovAA/tada/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/tada/internal/common/crypto"
	"github.com/AlibekovAA/tada/internal/common/db"
	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
	todorepo "github.com/AlibekovAA/tada/internal/todo/repository"
	todoservice "github.com/AlibekovAA/tada/internal/todo/service"
	userrepo "github.com/AlibekovAA/tada/internal/user/repository"
	userservice "github.com/AlibekovAA/tada/internal/user/service"
	"github.com/AlibekovAA/tada/internal/weather"
)

type App struct {
	Config   config.Config
	Log      *logger.Logger
	Pool     *pgxpool.Pool
	Limiters *commonhttp.RateLimiters
	Handler  http.Handler
}

// NewApp loads configuration, migrates the schema and wires every
// component behind the HTTP router. The caller owns Close.
func NewApp(ctx context.Context) (*App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "tada", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations applied")

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL, db.DefaultPoolConfig)
	if err != nil {
		return nil, err
	}
	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	users := userrepo.NewPgRepository(pool, log)
	accounts := userservice.NewAccountService(users, hasher, idGenerator, clk, log)
	todos := todoservice.NewTodoService(todorepo.NewPgRepository(pool, log), idGenerator, clk, log)

	if err := accounts.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to provision admin account: %w", err)
	}

	weatherClient := weather.NewClient(weather.ClientConfig{
		BaseURL:          cfg.WeatherAPIURL,
		APIKey:           cfg.WeatherAPIKey,
		Timeout:          cfg.WeatherTimeout,
		BreakerThreshold: cfg.CircuitBreakerThreshold,
		BreakerReset:     cfg.CircuitBreakerReset,
	}, nil, log)
	if cfg.WeatherAPIKey == "" {
		log.Warn("WEATHER_API_KEY is not set, weather endpoints will answer 503")
	}

	limiters := commonhttp.NewRateLimiters()

	handler := api.NewRouter(api.Deps{
		Log:            log,
		Accounts:       accounts,
		Todos:          todos,
		Weather:        weather.NewService(weatherClient),
		Gate:           access.NewGate(accounts, hasher, log),
		Limiters:       limiters,
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &App{
		Config:   cfg,
		Log:      log,
		Pool:     pool,
		Limiters: limiters,
		Handler:  handler,
	}, nil
}

func (a *App) Close() {
	a.Limiters.Stop()
	a.Pool.Close()
}
