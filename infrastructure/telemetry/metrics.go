// Package telemetry provides OpenTelemetry metrics and tracing for worksheet
// builds.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordProblemsGenerated(ctx context.Context, operation string, count int)
	RecordPageCompiled(ctx context.Context, compiler string, success bool, duration time.Duration)
	RecordMergeAttempt(ctx context.Context, strategy, outcome string)
	RecordBatch(ctx context.Context, status string, duration time.Duration)
}

// MetricsProvider records worksheet metrics on the global meter provider.
type MetricsProvider struct {
	meter metric.Meter

	problemsGenerated metric.Int64Counter
	pagesCompiled     metric.Int64Counter
	mergeAttempts     metric.Int64Counter

	compileDuration metric.Float64Histogram
	batchDuration   metric.Float64Histogram

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter.
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/worksheet-go",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.problemsGenerated, err = mp.meter.Int64Counter(
		"worksheet.problems.generated",
		metric.WithDescription("Number of problems generated"),
		metric.WithUnit("{problem}"),
	)
	if err != nil {
		return err
	}

	mp.pagesCompiled, err = mp.meter.Int64Counter(
		"worksheet.pages.compiled",
		metric.WithDescription("Number of batch pages compiled"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return err
	}

	mp.mergeAttempts, err = mp.meter.Int64Counter(
		"worksheet.merge.attempts",
		metric.WithDescription("Number of merge strategy attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return err
	}

	mp.compileDuration, err = mp.meter.Float64Histogram(
		"worksheet.page.compile.duration",
		metric.WithDescription("Duration of page compiles"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.batchDuration, err = mp.meter.Float64Histogram(
		"worksheet.batch.duration",
		metric.WithDescription("Duration of batch builds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordProblemsGenerated records a generated problem set.
func (mp *MetricsProvider) RecordProblemsGenerated(ctx context.Context, operation string, count int) {
	mp.problemsGenerated.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("problem.operation", operation),
	))
}

// RecordPageCompiled records one page compile.
func (mp *MetricsProvider) RecordPageCompiled(ctx context.Context, compiler string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("compiler.name", compiler),
		attribute.Bool("success", success),
	)
	mp.pagesCompiled.Add(ctx, 1, attrs)
	mp.compileDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordMergeAttempt records one merge strategy attempt.
func (mp *MetricsProvider) RecordMergeAttempt(ctx context.Context, strategy, outcome string) {
	mp.mergeAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("merge.strategy", strategy),
		attribute.String("merge.outcome", outcome),
	))
}

// RecordBatch records a finished batch build.
func (mp *MetricsProvider) RecordBatch(ctx context.Context, status string, duration time.Duration) {
	mp.batchDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.String("batch.status", status),
	))
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

// RecordProblemsGenerated is a no-op.
func (NoopMetrics) RecordProblemsGenerated(context.Context, string, int) {}

// RecordPageCompiled is a no-op.
func (NoopMetrics) RecordPageCompiled(context.Context, string, bool, time.Duration) {}

// RecordMergeAttempt is a no-op.
func (NoopMetrics) RecordMergeAttempt(context.Context, string, string) {}

// RecordBatch is a no-op.
func (NoopMetrics) RecordBatch(context.Context, string, time.Duration) {}

var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetrics{}
)
