package service

import (
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

type tokenizer struct {
	key         *cryptoDomain.EncryptionKey
	aeadManager cryptoService.AEADManager
	newToken    func() cardDomain.Token
	now         func() time.Time
}

// NewTokenizer returns a Tokenizer bound to the process encryption key.
func NewTokenizer(key *cryptoDomain.EncryptionKey, aeadManager cryptoService.AEADManager) Tokenizer {
	return &tokenizer{
		key:         key,
		aeadManager: aeadManager,
		newToken:    cardDomain.NewToken,
		now:         time.Now,
	}
}

func (t *tokenizer) Tokenize(raw cardDomain.RawCardData) (*cardDomain.TransactionRecord, error) {
	token := t.newToken()

	var ciphertext, nonce []byte
	err := t.key.Use(func(key []byte) error {
		cipher, err := t.aeadManager.CreateCipher(key, t.key.Algorithm())
		if err != nil {
			return err
		}
		ciphertext, nonce, err = cipher.Encrypt(raw, []byte(token))
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt card data")
	}

	return &cardDomain.TransactionRecord{
		Token:      token,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Algorithm:  t.key.Algorithm(),
		CreatedAt:  t.now().UTC().Truncate(time.Microsecond),
	}, nil
}

func (t *tokenizer) Open(record *cardDomain.TransactionRecord) (cardDomain.RawCardData, error) {
	var plaintext []byte
	err := t.key.Use(func(key []byte) error {
		cipher, err := t.aeadManager.CreateCipher(key, record.Algorithm)
		if err != nil {
			return err
		}
		plaintext, err = cipher.Decrypt(record.Ciphertext, record.Nonce, []byte(record.Token))
		return err
	})
	if err != nil {
		if apperrors.Is(err, cryptoDomain.ErrEncryptionKeyClosed) {
			return nil, err
		}
		// A stored record that cannot be authenticated is an integrity fault,
		// whatever the underlying cause (tag mismatch, nonce size, unknown algorithm).
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return cardDomain.RawCardData(plaintext), nil
}
