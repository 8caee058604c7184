// Package usecase defines interfaces and implementations for the card capture pipeline
// and the transaction lookup path.
package usecase

import (
	"context"
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// TransactionRepository defines the interface for transaction record persistence.
// Records are insert-only.
type TransactionRepository interface {
	// Create inserts record. A duplicate token returns ErrTransactionAlreadyExists and
	// leaves the stored record unaltered. Uses transaction support via database.GetTx().
	Create(ctx context.Context, record *cardDomain.TransactionRecord) error

	// Get returns the record for token or ErrTransactionNotFound.
	Get(ctx context.Context, token cardDomain.Token) (*cardDomain.TransactionRecord, error)
}

// DeviceReader captures one record from the card reader within budget.
// Every failure is reported as ErrNoData.
type DeviceReader interface {
	Capture(ctx context.Context, budget time.Duration) (cardDomain.RawCardData, error)
}

// PaymentProcessor forwards a persisted transaction to settlement. A returned error
// is a transient failure; accepted and declined are business answers.
type PaymentProcessor interface {
	Process(ctx context.Context, record *cardDomain.TransactionRecord) (cardDomain.SettlementStatus, error)
}

// CardUseCase defines the card pipeline operations.
type CardUseCase interface {
	// Capture runs one capture through validation, tokenization, persistence and
	// settlement. It always returns a terminal outcome.
	Capture(ctx context.Context) cardDomain.Outcome

	// Lookup returns the non-sensitive metadata of a transaction after checking that its
	// ciphertext still authenticates. Returns ErrTransactionNotFound for unknown tokens
	// and ErrDecryptionFailed for records that fail authentication.
	Lookup(ctx context.Context, token cardDomain.Token) (*cardDomain.TransactionMetadata, error)
}
