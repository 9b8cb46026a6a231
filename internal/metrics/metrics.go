package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BatchTransitions counts lifecycle operations by outcome.
	BatchTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "production_batch_transitions_total",
			Help: "Total number of batch lifecycle operations",
		},
		[]string{"operation", "result"},
	)

	// UnitsSerialized counts finished-good units created at completion.
	UnitsSerialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "production_units_serialized_total",
			Help: "Total number of serialized finished-good units",
		},
		[]string{"product_sku"},
	)

	// ProductionCost records the final production cost of completed batches.
	ProductionCost = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "production_batch_cost",
			Help:    "Production cost of completed batches",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 10),
		},
	)

	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveTransition records one lifecycle operation and its outcome.
func ObserveTransition(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	BatchTransitions.WithLabelValues(operation, result).Inc()
}

// Middleware records request count and latency per route template.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(c.Method(), path, statusStr).Inc()
		RequestDurationHistogram.WithLabelValues(c.Method(), path, statusStr).Observe(time.Since(start).Seconds())
		return err
	}
}
