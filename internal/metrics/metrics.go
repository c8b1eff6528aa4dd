// README: Prometheus collectors for quote computation and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	QuotesTotal     prometheus.Counter
	QuoteFailures   *prometheus.CounterVec
	QuoteDuration   prometheus.Histogram
	QuoteCache      *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPRequestTime *prometheus.HistogramVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QuotesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "The total number of quotes computed successfully",
		}),
		QuoteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_failures_total",
			Help:      "The total number of failed quotes by error kind",
		}, []string{"kind"}),
		QuoteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_duration_seconds",
			Help:      "Time taken to compute a quote",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		QuoteCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_cache_lookups_total",
			Help:      "Quote cache lookups by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *Metrics) ObserveQuote(d time.Duration) {
	if m == nil {
		return
	}
	m.QuotesTotal.Inc()
	m.QuoteDuration.Observe(d.Seconds())
}

func (m *Metrics) QuoteFailed(kind string) {
	if m == nil {
		return
	}
	m.QuoteFailures.WithLabelValues(kind).Inc()
}

// CacheLookup records "hit", "miss" or "error".
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.QuoteCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestTime.WithLabelValues(route).Observe(d.Seconds())
}
