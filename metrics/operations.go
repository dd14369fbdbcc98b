package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OperationMetrics defines the interface for recording protection operation
// metrics. Implementations track operation counts and durations for
// observability.
type OperationMetrics interface {
	// RecordOperation records a protection operation with its status.
	// Strategy examples: "derived-key", "sealed"
	// Operation examples: "protect", "unprotect", "derive_sub_protector",
	// "create_protector"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, strategy, operation, status string)

	// RecordDuration records the duration of a protection operation with its
	// status. Duration is recorded in seconds as a histogram for percentile
	// calculations.
	RecordDuration(ctx context.Context, strategy, operation string, duration time.Duration, status string)
}

// operationMetrics implements OperationMetrics using OpenTelemetry metrics.
type operationMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewOperationMetrics creates a new OperationMetrics implementation using
// the provided meter provider. The namespace parameter is used as a prefix
// for all metric names. Returns error if meters cannot be initialized.
func NewOperationMetrics(meterProvider metric.MeterProvider, namespace string) (OperationMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of protection operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of protection operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &operationMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

// RecordOperation increments the operation counter with strategy, operation,
// and status labels.
func (o *operationMetrics) RecordOperation(ctx context.Context, strategy, operation, status string) {
	o.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with strategy,
// operation, and status labels.
func (o *operationMetrics) RecordDuration(
	ctx context.Context,
	strategy, operation string,
	duration time.Duration,
	status string,
) {
	o.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// NoOpOperationMetrics is a no-op implementation of OperationMetrics for
// when metrics are disabled.
type NoOpOperationMetrics struct{}

// NewNoOpOperationMetrics creates a no-op OperationMetrics implementation.
func NewNoOpOperationMetrics() OperationMetrics {
	return &NoOpOperationMetrics{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpOperationMetrics) RecordOperation(ctx context.Context, strategy, operation, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpOperationMetrics) RecordDuration(
	ctx context.Context,
	strategy, operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}
