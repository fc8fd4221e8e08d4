package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/AlibekovAA/tada/internal/common/constants"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/common/resilience"
	"github.com/AlibekovAA/tada/internal/observability/metrics"
)

// Reading is the subset of the upstream payload the service uses.
type Reading struct {
	Humidity    int
	Temperature float64
}

type upstreamResponse struct {
	Main *struct {
		Humidity int     `json:"humidity"`
		Temp     float64 `json:"temp"`
	} `json:"main"`
}

type ClientConfig struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	BreakerThreshold int32
	BreakerReset     time.Duration
}

// Client calls an OpenWeatherMap-compatible current-weather endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	log        *logger.Logger
}

func NewClient(cfg ClientConfig, httpClient *http.Client, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultWeatherAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultWeatherTimeout
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = constants.DefaultCircuitBreakerThreshold
	}
	if cfg.BreakerReset <= 0 {
		cfg.BreakerReset = constants.DefaultCircuitBreakerReset
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.BreakerThreshold,
		Timeout:    cfg.Timeout,
		ResetAfter: cfg.BreakerReset,
		Name:       "weather",
		Logger:     log,
		IsFailure: func(err error) bool {
			return !errors.Is(err, ErrCityNotFound)
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		breaker:    breaker,
		log:        log,
	}
}

func (c *Client) Current(ctx context.Context, city string) (Reading, error) {
	if c.apiKey == "" {
		return Reading{}, ErrNotConfigured
	}

	var reading Reading
	start := time.Now()

	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		var callErr error
		reading, callErr = c.fetch(ctx, city)
		return callErr
	})

	metrics.WeatherRequestDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.WeatherRequestsTotal.WithLabelValues(resultLabel(err)).Inc()

	if err != nil {
		c.log.WithFields(ctx, logger.Fields{
			"city":   city,
			"action": "weather_fetch_failed",
		}).Warnf("weather lookup failed: %v", err)
		return Reading{}, err
	}
	return reading, nil
}

func (c *Client) fetch(ctx context.Context, city string) (Reading, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Reading{}, ErrUpstream.WithCause(fmt.Errorf("invalid weather url: %w", err))
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Reading{}, ErrUpstream.WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reading{}, ErrUpstream.WithCause(err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, constants.WeatherMaxBodySize)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, body)
		return Reading{}, ErrCityNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, body)
		return Reading{}, ErrUpstream.WithCause(fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	var payload upstreamResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return Reading{}, ErrUpstream.WithCause(fmt.Errorf("decode response: %w", err))
	}
	if payload.Main == nil {
		return Reading{}, ErrUpstream.WithCause(errors.New("response has no main section"))
	}

	return Reading{Humidity: payload.Main.Humidity, Temperature: payload.Main.Temp}, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCityNotFound):
		return "not_found"
	default:
		return "error"
	}
}
