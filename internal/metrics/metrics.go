package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"Bookstore_API/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// It implements cache.Recorder.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// Cache metrics, labelled by key family
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	cacheInvalidated *prometheus.CounterVec
	cacheErrors      *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"family"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"family"},
		),
		cacheInvalidated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidated_entries_total",
				Help:      "Total number of cache entries removed by invalidation",
			},
			[]string{"family"},
		),
		cacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Total number of cache store errors",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.cacheHits,
		c.cacheMisses,
		c.cacheInvalidated,
		c.cacheErrors,
		collectors.NewGoCollector(),
	)

	return c
}

// Hit records a cache hit
func (c *Collector) Hit(family string) {
	c.cacheHits.WithLabelValues(family).Inc()
}

// Miss records a cache miss
func (c *Collector) Miss(family string) {
	c.cacheMisses.WithLabelValues(family).Inc()
}

// Invalidated records entries removed by a pattern purge
func (c *Collector) Invalidated(family string, count int) {
	if count <= 0 {
		return
	}
	c.cacheInvalidated.WithLabelValues(family).Add(float64(count))
}

// Error records a failed cache store operation
func (c *Collector) Error(operation string) {
	c.cacheErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveStore exports the entry counts of a cache store, read at scrape time
func (c *Collector) ObserveStore(namespace, name string, store cache.Service) {
	stats := func() cache.Stats {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s, err := store.Stats(ctx)
		if err != nil {
			return cache.Stats{}
		}
		return s
	}

	labels := prometheus.Labels{"store": name}
	c.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cache_valid_entries",
			Help:        "Number of cache entries that are still valid",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().ValidEntries) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cache_expired_entries",
			Help:        "Number of expired cache entries not yet removed",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().ExpiredEntries) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_expirations_total",
			Help:        "Number of entries removed because they expired",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Expirations) }),
	)
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
