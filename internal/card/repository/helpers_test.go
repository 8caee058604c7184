package repository

import (
	"testing"
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

func newRecord(t *testing.T) *cardDomain.TransactionRecord {
	t.Helper()
	return &cardDomain.TransactionRecord{
		Token:      cardDomain.NewToken(),
		Ciphertext: []byte("opaque-ciphertext-with-tag"),
		Nonce:      []byte("123456789012"),
		Algorithm:  cryptoDomain.AESGCM,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}
