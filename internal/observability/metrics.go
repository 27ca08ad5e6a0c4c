package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	apiRequestsTotal        *prometheus.CounterVec
	apiLatencySeconds       *prometheus.HistogramVec
	apiErrorsTotal          *prometheus.CounterVec
	promotionSimulations    prometheus.Counter
	promotionBatchesTotal   *prometheus.CounterVec
	promotionDecisionsTotal *prometheus.CounterVec
	promotionBatchSeconds   prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the API and the
// promotion engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colegio_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "colegio_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colegio_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		promotionSimulations = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colegio_promotion_simulations_total",
			Help: "Total number of promotion dry runs computed.",
		})

		promotionBatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colegio_promotion_batches_total",
			Help: "Promotion batch executions by outcome.",
		}, []string{"outcome"})

		promotionDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colegio_promotion_decisions_total",
			Help: "Committed promotion decisions by classification.",
		}, []string{"decision"})

		promotionBatchSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colegio_promotion_batch_seconds",
			Help:    "Wall time of committed promotion batches.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			promotionSimulations,
			promotionBatchesTotal,
			promotionDecisionsTotal,
			promotionBatchSeconds,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// PromotionSimulations exposes the dry-run counter.
func PromotionSimulations() prometheus.Counter {
	RegisterMetrics()
	return promotionSimulations
}

// PromotionBatches exposes the batch outcome counter.
func PromotionBatches() *prometheus.CounterVec {
	RegisterMetrics()
	return promotionBatchesTotal
}

// PromotionDecisions exposes the committed decision counter.
func PromotionDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return promotionDecisionsTotal
}

// PromotionBatchDuration exposes the batch latency histogram.
func PromotionBatchDuration() prometheus.Histogram {
	RegisterMetrics()
	return promotionBatchSeconds
}
