package server

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/tada/internal/common/config"
	"github.com/AlibekovAA/tada/internal/common/constants"
)

// writeSlack keeps the write deadline past the request deadline.
const writeSlack = time.Second

type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// NewServerConfig derives listener settings from the application config.
// WriteTimeout is never shorter than RequestTimeout plus writeSlack, and
// ReadHeaderTimeout never exceeds ReadTimeout.
func NewServerConfig(cfg config.Config) ServerConfig {
	sc := ServerConfig{
		Addr:              ":" + cfg.HTTPPort,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       orDefault(cfg.ServerReadTimeout, constants.ServerReadTimeout),
		WriteTimeout:      orDefault(cfg.ServerWriteTimeout, constants.ServerWriteTimeout),
		IdleTimeout:       orDefault(cfg.ServerIdleTimeout, constants.ServerIdleTimeout),
	}

	if floor := cfg.RequestTimeout + writeSlack; cfg.RequestTimeout > 0 && sc.WriteTimeout < floor {
		sc.WriteTimeout = floor
	}
	if sc.ReadHeaderTimeout > sc.ReadTimeout {
		sc.ReadHeaderTimeout = sc.ReadTimeout
	}
	return sc
}

func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
