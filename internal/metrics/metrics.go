// Package metrics содержит коллекторы Prometheus сервиса и пакетных команд.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests total HTTP requests partitioned by method, route, and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration request duration in seconds
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// HTTPInFlight in-flight HTTP requests
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// RateLimited запросы, отклонённые ограничителем частоты.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// PaymentRequests вызовы провайдера платёжных кодов по исходу.
	PaymentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_code_requests_total",
			Help: "Payment code requests by outcome",
		},
		[]string{"outcome"},
	)

	// PaymentDuration длительность вызова провайдера.
	PaymentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_code_request_duration_seconds",
			Help:    "Payment provider round-trip latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)

	// ShortLinksMinted выпущенные короткие ссылки.
	ShortLinksMinted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortlink_minted_total",
			Help: "Short links minted",
		},
	)

	// ShortIDFallback выпуски, перешедшие на длинный идентификатор.
	ShortIDFallback = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortlink_id_fallback_total",
			Help: "Mints that exhausted the primary-length retries and widened the id",
		},
	)

	// ShortLinkResolves переходы по коротким ссылкам по исходу.
	ShortLinkResolves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlink_resolve_total",
			Help: "Short link resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// LetterViews просмотры писем по исходу.
	LetterViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letter_views_total",
			Help: "Letter viewer requests by outcome",
		},
		[]string{"outcome"},
	)

	// BatchRows строки пакетной обработки по результату.
	BatchRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_rows_total",
			Help: "Batch rows processed by job and result",
		},
		[]string{"job", "result"},
	)
)
