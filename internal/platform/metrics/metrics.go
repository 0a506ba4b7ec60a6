package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	categoryErrors  *prometheus.CounterVec
	eventsDropped   prometheus.Counter
	expiringFound   prometheus.Gauge
}

var collectorSingleton = sync.OnceValue(func() *Collector {
	return &Collector{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcontracts",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hrcontracts",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcontracts",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
		cacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcontracts",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by key and result (hit, miss, stale, corrupt).",
		}, []string{"key", "result"}),
		categoryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcontracts",
			Subsystem: "novedades",
			Name:      "category_fetch_errors_total",
			Help:      "Failed per-category novedad fetches during current-state resolution.",
		}, []string{"category"}),
		eventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "hrcontracts",
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Events dropped because the bus buffer was full.",
		}),
		expiringFound: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "hrcontracts",
			Subsystem: "jobs",
			Name:      "expiring_contracts",
			Help:      "Contracts found expiring by the last scan.",
		}),
	}
})

// New returns the process-wide collector; collectors register once.
func New() *Collector {
	return collectorSingleton()
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.WithLabelValues(route).Inc()
	}
}

func (c *Collector) CacheLookup(key, result string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(key, result).Inc()
}

func (c *Collector) CategoryFetchFailed(category string) {
	if c == nil {
		return
	}
	c.categoryErrors.WithLabelValues(category).Inc()
}

func (c *Collector) EventDropped() {
	if c == nil {
		return
	}
	c.eventsDropped.Inc()
}

func (c *Collector) ExpiringContracts(n int) {
	if c == nil {
		return
	}
	c.expiringFound.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
