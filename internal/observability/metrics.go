package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricValidationsTotal    = "uivet.validations.total"
	metricValidationDuration  = "uivet.validation.duration.seconds"
	metricErrorsTotal         = "uivet.errors.total"
	metricInflightValidations = "uivet.inflight.validations"

	attrOp     = "op"
	attrStatus = "status"

	statusError = "error"
)

// durationBucketBoundaries covers 100µs to 10s. Validation is a single
// linear pass over a snippet, so most observations land well under a
// second; the upper buckets catch tree-sitter parses of large files.
var durationBucketBoundaries = []float64{
	0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	validationsTotal    metric.Int64Counter
	validationDuration  metric.Float64Histogram
	errorsTotal         metric.Int64Counter
	inflightValidations metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	total, err := mt.Int64Counter(metricValidationsTotal,
		metric.WithDescription("Total number of validations"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricValidationsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricValidationDuration,
		metric.WithDescription("Validation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricValidationDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed validations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightValidations,
		metric.WithDescription("Number of in-flight validations"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightValidations, err)
	}

	return &REDMetrics{
		validationsTotal:    total,
		validationDuration:  duration,
		errorsTotal:         errTotal,
		inflightValidations: inflight,
	}, nil
}

// RecordValidation records a completed validation with its operation,
// status, and duration.
func (rm *REDMetrics) RecordValidation(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.validationsTotal.Add(ctx, 1, attrs)
	rm.validationDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function
// to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightValidations.Add(ctx, 1, attrs)

	return func() {
		rm.inflightValidations.Add(ctx, -1, attrs)
	}
}
