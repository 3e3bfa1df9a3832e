// Package metrics provides Prometheus instrumentation for a braid's
// scheduler: how many workers are currently running, how deep the
// per-Run throttle queue is, how many result-table entries exist, and how
// long Wait barriers take. Recording is always non-blocking and never
// retried — a metrics backend hiccup must never slow down dispatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and updates the braid scheduler's Prometheus
// collectors. Construct one with New and pass it to braid.WithMetrics.
//
// Metrics exposed (all namespaced "braid_"):
//
//   - active_workers (gauge): workers currently past the throttle
//     semaphore and inside the step processor.
//   - throttle_queue_depth (gauge): workers blocked waiting for the
//     per-Run throttle semaphore.
//   - ttable_entries_total (gauge): current size of the result table.
//   - wait_duration_seconds (histogram): how long Wait barriers took,
//     labeled by outcome ("done" or "timeout").
type Collector struct {
	activeWorkers prometheus.Gauge
	queueDepth    prometheus.Gauge
	ttableEntries prometheus.Gauge
	waitDuration  *prometheus.HistogramVec
}

// New creates and registers a Collector's metrics with registry. Pass
// prometheus.DefaultRegisterer to use the global registry.
func New(registry prometheus.Registerer) *Collector {
	c := &Collector{
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "braid_active_workers",
			Help: "Number of braid workers currently executing the step processor.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "braid_throttle_queue_depth",
			Help: "Number of braid workers blocked on the per-Run throttle semaphore.",
		}),
		ttableEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "braid_ttable_entries_total",
			Help: "Current number of entries in the braid's result table.",
		}),
		waitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "braid_wait_duration_seconds",
			Help:    "Duration of Wait barrier calls, labeled by outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	registry.MustRegister(c.activeWorkers, c.queueDepth, c.ttableEntries, c.waitDuration)
	return c
}

// WorkerStarted increments the active-worker gauge.
func (c *Collector) WorkerStarted() { c.activeWorkers.Inc() }

// WorkerFinished decrements the active-worker gauge.
func (c *Collector) WorkerFinished() { c.activeWorkers.Dec() }

// QueueWaitStarted increments the throttle-queue-depth gauge.
func (c *Collector) QueueWaitStarted() { c.queueDepth.Inc() }

// QueueWaitFinished decrements the throttle-queue-depth gauge.
func (c *Collector) QueueWaitFinished() { c.queueDepth.Dec() }

// SetTableSize records the current result-table size.
func (c *Collector) SetTableSize(n int) { c.ttableEntries.Set(float64(n)) }

// ObserveWait records how long a Wait call took and whether it timed out.
func (c *Collector) ObserveWait(d time.Duration, timedOut bool) {
	outcome := "done"
	if timedOut {
		outcome = "timeout"
	}
	c.waitDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
