package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/tada/internal/common/constants"
	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
)

type Config struct {
	HTTPPort       string
	DatabaseURL    string
	RequestTimeout time.Duration
	BcryptCost     int

	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	LogDir   string
	LogLevel string

	WeatherAPIKey  string
	WeatherAPIURL  string
	WeatherTimeout time.Duration

	CircuitBreakerThreshold int32
	CircuitBreakerReset     time.Duration

	AdminUsername string
	AdminPassword string

	CORSAllowedOrigins []string
}

// LoadDotEnv reads variables from the given files into the process
// environment without overriding values that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:                getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:             databaseURL,
		RequestTimeout:          getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		BcryptCost:              getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		ServerReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", constants.ServerReadTimeout),
		ServerWriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", constants.ServerWriteTimeout),
		ServerIdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", constants.ServerIdleTimeout),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		WeatherAPIKey:           getEnv("WEATHER_API_KEY", ""),
		WeatherAPIURL:           getEnv("WEATHER_API_URL", constants.DefaultWeatherAPIURL),
		WeatherTimeout:          getDurationEnv("WEATHER_TIMEOUT", constants.DefaultWeatherTimeout),
		CircuitBreakerThreshold: int32(getIntEnv("CIRCUIT_BREAKER_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerReset:     getDurationEnv("CIRCUIT_BREAKER_RESET", constants.DefaultCircuitBreakerReset),
		AdminUsername:           getEnv("ADMIN_USERNAME", ""),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
		CORSAllowedOrigins:      getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_PORT %q: %w", cfg.HTTPPort, err)
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword == "" {
		return Config{}, commonerrors.ErrMissingRequiredEnv.WithMessage(
			"ADMIN_PASSWORD is required when ADMIN_USERNAME is set",
		)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithMessage("missing required environment variable: " + key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getListEnv(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
