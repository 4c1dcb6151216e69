package easystore

import (
	"log/slog"
)

// DefaultDisk is the disk used when no WithDefaultDisk option is given.
const DefaultDisk = "local"

type options struct {
	defaultDisk      string
	logOnError       bool
	raiseOnError     bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Dispatcher.
type Option func(*options)

// WithDefaultDisk sets the disk used when a call names none.
func WithDefaultDisk(name string) Option {
	return func(o *options) {
		o.defaultDisk = name
	}
}

// WithLogOnError emits one error record per failed or unsupported operation.
func WithLogOnError(enabled bool) Option {
	return func(o *options) {
		o.logOnError = enabled
	}
}

// WithRaiseOnError returns failures to the caller instead of the sentinel
// zero value.
//
// Unknown disks and missing download sources are always returned, whatever
// this option says.
func WithRaiseOnError(enabled bool) Option {
	return func(o *options) {
		o.raiseOnError = enabled
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &easystore.BasicMetricsCollector{}
//	store := easystore.New(registry, easystore.WithMetricsCollector(metrics))
//	// ... use store ...
//	stats := metrics.GetStats()
//	fmt.Printf("Calls: %d, Avg latency: %dns\n", stats.OperationCount, stats.OperationAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures the logger failure records are written to.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := easystore.NewJSONLogger(slog.LevelInfo)
//	store := easystore.New(registry, easystore.WithLogger(logger), easystore.WithLogOnError(true))
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

func applyOptions(optFns []Option) options {
	o := options{
		defaultDisk:      DefaultDisk,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
