package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	generationStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_generation_started_total",
		Help: "Total video generation jobs admitted.",
	})
	generationCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_generation_completed_total",
		Help: "Total video generation jobs completed.",
	})
	generationFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_generation_failed_total",
		Help: "Total video generation jobs failed or timed out.",
	})
	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "video_generation_duration_seconds",
		Help:    "Wall time of synchronous generation, polling included.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 180, 240, 300},
	})
)

// Metrics exposes the Prometheus registry.
func Metrics() http.Handler {
	return promhttp.Handler()
}
