package usecase

import (
	"context"
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/metrics"
)

// cardUseCaseWithMetrics decorates CardUseCase with metrics instrumentation.
type cardUseCaseWithMetrics struct {
	next    CardUseCase
	metrics metrics.BusinessMetrics
}

// NewCardUseCaseWithMetrics wraps a CardUseCase with metrics recording.
func NewCardUseCaseWithMetrics(useCase CardUseCase, m metrics.BusinessMetrics) CardUseCase {
	return &cardUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Capture records the operation and the terminal outcome of the run.
func (c *cardUseCaseWithMetrics) Capture(ctx context.Context) cardDomain.Outcome {
	start := time.Now()
	outcome := c.next.Capture(ctx)

	status := metrics.StatusSuccess
	if !outcome.IsDone() {
		status = metrics.StatusError
	}

	c.metrics.RecordOperation(ctx, "card", "capture", status)
	c.metrics.RecordDuration(ctx, "card", "capture", time.Since(start), status)
	c.metrics.RecordOutcome(ctx, string(outcome.State), string(outcome.Reason), string(outcome.Settlement))

	return outcome
}

// Lookup records metrics for transaction lookups.
func (c *cardUseCaseWithMetrics) Lookup(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionMetadata, error) {
	start := time.Now()
	metadata, err := c.next.Lookup(ctx, token)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	c.metrics.RecordOperation(ctx, "card", "lookup", status)
	c.metrics.RecordDuration(ctx, "card", "lookup", time.Since(start), status)

	return metadata, err
}
