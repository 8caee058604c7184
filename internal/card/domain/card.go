// Package domain defines the card capture entities and the pipeline outcome model.
package domain

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

const redacted = "[REDACTED]"

// RawCardData is the payload read from the device. It lives only between capture and
// encryption and must be wiped with Wipe once encrypted.
type RawCardData []byte

// Wipe zeroes the payload in place.
func (r RawCardData) Wipe() {
	cryptoDomain.Zero(r)
}

// IsEmpty reports whether there is no payload.
func (r RawCardData) IsEmpty() bool {
	return len(r) == 0
}

// String redacts the payload so that fmt verbs never print card data.
func (r RawCardData) String() string {
	return redacted
}

// GoString redacts the payload for %#v.
func (r RawCardData) GoString() string {
	return redacted
}

// LogValue redacts the payload for slog.
func (r RawCardData) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// Token is the opaque, externally shareable handle of a transaction: a random
// (version 4) UUID in canonical form.
type Token string

// NewToken draws a fresh token from crypto/rand.
func NewToken() Token {
	return Token(uuid.NewString())
}

// ParseToken accepts only the canonical 36-character lowercase or uppercase form
// and returns it normalized to lowercase.
func ParseToken(s string) (Token, error) {
	if len(s) != 36 {
		return "", ErrInvalidToken
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", ErrInvalidToken
	}
	return Token(id.String()), nil
}

// String returns the token value.
func (t Token) String() string {
	return string(t)
}

// TransactionRecord is the persisted form of a capture. It is written once and never updated.
// Ciphertext authenticates Token as associated data.
type TransactionRecord struct {
	Token      Token
	Ciphertext []byte
	Nonce      []byte
	Algorithm  cryptoDomain.Algorithm
	CreatedAt  time.Time
}

// Metadata returns the non-sensitive view of the record.
func (r *TransactionRecord) Metadata() *TransactionMetadata {
	return &TransactionMetadata{Token: r.Token, CreatedAt: r.CreatedAt}
}

// TransactionMetadata is everything a lookup may expose.
type TransactionMetadata struct {
	Token     Token
	CreatedAt time.Time
}
