package task

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics for the worker pool.
type Collector struct {
	itemsProcessed *prometheus.CounterVec
	itemDuration   *prometheus.HistogramVec
	queuePending   prometheus.Gauge
	queueInFlight  prometheus.Gauge
}

// NewCollector creates the worker-pool metrics and registers them with
// the given registerer. Pass prometheus.DefaultRegisterer in production
// and a fresh prometheus.NewRegistry() in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		itemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_items_processed_total",
			Help: "Total number of work items processed, by kind and outcome",
		}, []string{"kind", "outcome"}),
		itemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dispatch_item_duration_seconds",
			Help:    "Work item execution duration in seconds, by kind",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		queuePending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_queue_pending",
			Help: "Current number of messages waiting in the queue",
		}),
		queueInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_queue_in_flight",
			Help: "Current number of delivered but unacknowledged messages",
		}),
	}

	reg.MustRegister(c.itemsProcessed, c.itemDuration, c.queuePending, c.queueInFlight)

	return c
}

// RecordProcessed records one finished execution pass.
func (c *Collector) RecordProcessed(kind string, outcome Outcome, elapsed time.Duration) {
	c.itemsProcessed.WithLabelValues(kind, string(outcome)).Inc()
	c.itemDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// SetQueueStats updates the queue depth gauges.
func (c *Collector) SetQueueStats(pending, inFlight int) {
	c.queuePending.Set(float64(pending))
	c.queueInFlight.Set(float64(inFlight))
}
