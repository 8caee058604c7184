// Package settlement forwards persisted card transactions to an external settlement
// system. The card pipeline only depends on the Process shape; this package provides a
// placeholder that accepts everything and a NATS request/reply client.
package settlement

import (
	"context"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// NoopProcessor accepts every transaction without contacting anything.
type NoopProcessor struct{}

// NewNoopProcessor creates a NoopProcessor.
func NewNoopProcessor() *NoopProcessor {
	return &NoopProcessor{}
}

// Process always returns SettlementAccepted.
func (p *NoopProcessor) Process(
	ctx context.Context,
	record *cardDomain.TransactionRecord,
) (cardDomain.SettlementStatus, error) {
	return cardDomain.SettlementAccepted, nil
}
