package service

import (
	"context"
	"time"

	"github.com/allisson/dataprotection/metrics"
)

// providerWithMetrics decorates ProtectionProvider with metrics
// instrumentation. Protectors it creates are decorated as well, so every
// protect/unprotect/derive in the hierarchy is recorded.
type providerWithMetrics struct {
	next     ProtectionProvider
	strategy string
	metrics  metrics.OperationMetrics
}

// NewProviderWithMetrics wraps a ProtectionProvider with metrics recording.
// The strategy label distinguishes the derived-key and sealed hierarchies
// in the exported metrics.
func NewProviderWithMetrics(
	provider ProtectionProvider,
	strategy string,
	m metrics.OperationMetrics,
) ProtectionProvider {
	return &providerWithMetrics{
		next:     provider,
		strategy: strategy,
		metrics:  m,
	}
}

// CreateProtector records metrics for protector creation and decorates the
// returned protector.
func (p *providerWithMetrics) CreateProtector(ctx context.Context, purpose string) (Protector, error) {
	start := time.Now()
	protector, err := p.next.CreateProtector(ctx, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, p.strategy, "create_protector", status)
	p.metrics.RecordDuration(ctx, p.strategy, "create_protector", time.Since(start), status)

	if err != nil {
		return nil, err
	}
	return newProtectorWithMetrics(protector, p.strategy, p.metrics), nil
}

// Close closes the underlying provider.
func (p *providerWithMetrics) Close() {
	p.next.Close()
}

// protectorWithMetrics decorates Protector with metrics instrumentation.
// Protect and Unprotect carry no context by contract (synchronous,
// CPU-bound operations), so recording uses a background context.
type protectorWithMetrics struct {
	next     Protector
	strategy string
	metrics  metrics.OperationMetrics
}

func newProtectorWithMetrics(protector Protector, strategy string, m metrics.OperationMetrics) Protector {
	return &protectorWithMetrics{
		next:     protector,
		strategy: strategy,
		metrics:  m,
	}
}

// Protect records metrics for protect operations.
func (p *protectorWithMetrics) Protect(plaintext []byte) ([]byte, error) {
	start := time.Now()
	envelope, err := p.next.Protect(plaintext)

	status := "success"
	if err != nil {
		status = "error"
	}

	ctx := context.Background()
	p.metrics.RecordOperation(ctx, p.strategy, "protect", status)
	p.metrics.RecordDuration(ctx, p.strategy, "protect", time.Since(start), status)

	return envelope, err
}

// Unprotect records metrics for unprotect operations.
func (p *protectorWithMetrics) Unprotect(envelope []byte) ([]byte, error) {
	start := time.Now()
	plaintext, err := p.next.Unprotect(envelope)

	status := "success"
	if err != nil {
		status = "error"
	}

	ctx := context.Background()
	p.metrics.RecordOperation(ctx, p.strategy, "unprotect", status)
	p.metrics.RecordDuration(ctx, p.strategy, "unprotect", time.Since(start), status)

	return plaintext, err
}

// DeriveSubProtector records metrics for sub-protector derivation and
// decorates the derived protector.
func (p *protectorWithMetrics) DeriveSubProtector(purpose string) (Protector, error) {
	start := time.Now()
	protector, err := p.next.DeriveSubProtector(purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	ctx := context.Background()
	p.metrics.RecordOperation(ctx, p.strategy, "derive_sub_protector", status)
	p.metrics.RecordDuration(ctx, p.strategy, "derive_sub_protector", time.Since(start), status)

	if err != nil {
		return nil, err
	}
	return newProtectorWithMetrics(protector, p.strategy, p.metrics), nil
}

// Close closes the underlying protector.
func (p *protectorWithMetrics) Close() {
	p.next.Close()
}
