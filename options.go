package rabitq

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/rabitq/distance"
)

// Strategy selects how a prepared query scores codes.
//
// All strategies estimate the same quantity. StrategyBitwise and StrategyLUT
// apply to 1-bit codes only; for wider codes the float path is used.
type Strategy int

const (
	// StrategyFloat unpacks codes and takes float dot products with the query residual.
	StrategyFloat Strategy = iota
	// StrategyBitwise quantizes the query into bit-planes scored by AND+popcount.
	StrategyBitwise
	// StrategyLUT quantizes the query into per-nibble lookup tables.
	StrategyLUT
)

func (s Strategy) String() string {
	switch s {
	case StrategyFloat:
		return "float"
	case StrategyBitwise:
		return "bitwise"
	case StrategyLUT:
		return "lut"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

type options struct {
	bits             int
	queryBits        int
	metric           distance.Metric
	strategy         Strategy
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		bits:             1,
		queryBits:        4,
		metric:           distance.Cosine,
		strategy:         StrategyFloat,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures a Quantizer.
type Option func(*options)

// WithBits sets the code bit width per dimension (1..8, default 1).
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithQueryBits sets the number of query bit-planes used by StrategyBitwise
// (1..8, default 4). StrategyLUT always uses 4.
func WithQueryBits(bits int) Option {
	return func(o *options) {
		o.queryBits = bits
	}
}

// WithMetric sets the distance function (default distance.Cosine).
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithStrategy sets the query scoring strategy (default StrategyFloat).
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rabitq.BasicMetricsCollector{}
//	q, _ := rabitq.New(768, rabitq.WithMetricsCollector(metrics))
//	// ... use q ...
//	stats := metrics.GetStats()
//	fmt.Printf("Quantized: %d, Avg latency: %dns\n", stats.QuantizeCount, stats.QuantizeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rabitq.NewJSONLogger(slog.LevelDebug)
//	q, _ := rabitq.New(768, rabitq.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}
