package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "reviews"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	PipelineFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "pipeline_files_total", Help: "Input files by load status."},
		[]string{"status"}, // loaded|error
	)
	PipelineRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "pipeline_records_total", Help: "Input records by outcome."},
		[]string{"outcome"}, // kept|empty_text|malformed
	)
	SnapshotBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "snapshot_builds_total", Help: "Snapshot builds."},
		[]string{"result"}, // ok|empty
	)
	SnapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "snapshot_build_duration_seconds",
		Help:    "Snapshot build duration seconds.",
		Buckets: prometheus.DefBuckets,
	})
	SnapshotReviews = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "snapshot_reviews", Help: "Reviews in the served snapshot.",
	})
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

// Serve exposes /metrics on its own listener; an empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, PipelineFiles, PipelineRecords,
		SnapshotBuilds, SnapshotDuration, SnapshotReviews, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveFile(status string) { PipelineFiles.WithLabelValues(status).Inc() }

func ObserveRecords(outcome string, n int) {
	if n > 0 {
		PipelineRecords.WithLabelValues(outcome).Add(float64(n))
	}
}

func ObserveSnapshot(reviews int, dur time.Duration) {
	result := "ok"
	if reviews == 0 {
		result = "empty"
	}
	SnapshotBuilds.WithLabelValues(result).Inc()
	SnapshotDuration.Observe(dur.Seconds())
	SnapshotReviews.Set(float64(reviews))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
