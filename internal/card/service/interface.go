// Package service provides card payload validation and tokenization.
package service

import (
	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// Validator decides whether a captured payload is trusted. Implementations are pure:
// no I/O, no mutation of raw, and no partial-validity signal.
type Validator interface {
	Validate(raw cardDomain.RawCardData) bool
}

// Tokenizer mints tokens and seals payloads under the process encryption key.
type Tokenizer interface {
	// Tokenize returns a new record for raw with a fresh token. raw is not modified.
	Tokenize(raw cardDomain.RawCardData) (*cardDomain.TransactionRecord, error)

	// Open authenticates and decrypts a stored record. The caller must Wipe the result.
	Open(record *cardDomain.TransactionRecord) (cardDomain.RawCardData, error)
}
