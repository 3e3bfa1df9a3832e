package braid

import (
	"time"

	"github.com/codewillclick/braid/braid/emit"
)

// Defaults match the executor's baseline construction behavior.
const (
	DefaultInterval = 100 * time.Millisecond
	DefaultTimeout  = 300 * time.Second
	DefaultThrottle = 30
)

// config collects the options passed to New before they're applied to a
// Braid. The indirection lets options validate or compose before commit.
type config struct {
	interval time.Duration
	timeout  time.Duration
	throttle int
	emitter  emit.Emitter
	metrics  MetricsSink
}

// Option configures a Braid at construction time.
type Option func(*config)

// WithInterval overrides the default Wait polling/signal-check interval.
// The default Wait implementation is channel-based and doesn't poll, but
// the interval is kept as a construction-time option for any Wait variant
// that does.
func WithInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithTimeout overrides the default Wait barrier timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithThrottle overrides the default per-Run semaphore capacity. Run's own
// $throttle directive, when present, still overrides this for that one
// invocation.
func WithThrottle(n int) Option {
	return func(c *config) { c.throttle = n }
}

// WithEmitter wires an observability Emitter. Every worker spawned by Run
// emits node_start/node_done/node_error events to it. The default is
// emit.NullEmitter: observability is additive, never load-bearing.
func WithEmitter(e emit.Emitter) Option {
	return func(c *config) { c.emitter = e }
}

// WithMetrics wires a Prometheus-backed MetricsSink (see braid/metrics).
// The default records nothing.
func WithMetrics(m MetricsSink) Option {
	return func(c *config) { c.metrics = m }
}

func newConfig(opts []Option) config {
	c := config{
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		throttle: DefaultThrottle,
		emitter:  emit.NullEmitter{},
		metrics:  noopMetrics{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
