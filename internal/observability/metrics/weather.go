package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_upstream_requests_total",
			Help: "Total number of weather API calls by result",
		},
		[]string{"result"},
	)

	WeatherRequestDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_upstream_request_duration_seconds",
			Help:    "Duration of weather API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
