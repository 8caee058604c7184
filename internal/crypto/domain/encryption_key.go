package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// KMSKeeper decrypts wrapped key material. *secrets.Keeper satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KeySource describes where the process-wide encryption key comes from.
// Key takes precedence over KeyFile. When Keeper is set the decoded bytes are
// treated as KMS ciphertext and unwrapped before use.
type KeySource struct {
	Key     string
	KeyFile string
	Keeper  KMSKeeper
}

// EncryptionKey is the process-wide data encryption key. It is loaded once at
// startup, read-only afterwards, and wiped by Close on shutdown.
type EncryptionKey struct {
	mu        sync.RWMutex
	key       []byte
	algorithm Algorithm
}

// NewEncryptionKey copies key into a new EncryptionKey. The caller keeps ownership of key.
func NewEncryptionKey(key []byte, alg Algorithm) (*EncryptionKey, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}
	if alg != AESGCM && alg != ChaCha20 {
		return nil, ErrUnsupportedAlgorithm
	}
	return &EncryptionKey{key: append([]byte(nil), key...), algorithm: alg}, nil
}

// LoadEncryptionKey resolves src into an EncryptionKey. Every intermediate buffer is wiped.
func LoadEncryptionKey(ctx context.Context, src KeySource, alg Algorithm) (*EncryptionKey, error) {
	encoded := strings.TrimSpace(src.Key)
	if encoded == "" && src.KeyFile != "" {
		data, err := os.ReadFile(src.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read encryption key file: %w", err)
		}
		encoded = strings.TrimSpace(string(data))
		Zero(data)
	}
	if encoded == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidEncryptionKeyBase64
	}
	defer Zero(raw)

	if src.Keeper != nil {
		unwrapped, err := src.Keeper.Decrypt(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
		}
		defer Zero(unwrapped)
		return NewEncryptionKey(unwrapped, alg)
	}

	return NewEncryptionKey(raw, alg)
}

// Algorithm returns the AEAD construction the key is used with.
func (k *EncryptionKey) Algorithm() Algorithm {
	return k.algorithm
}

// Use calls fn with the key bytes held under a read lock. fn must not retain the slice.
func (k *EncryptionKey) Use(fn func(key []byte) error) error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return ErrEncryptionKeyClosed
	}
	return fn(k.key)
}

// Close wipes the key bytes. Subsequent Use calls fail with ErrEncryptionKeyClosed.
func (k *EncryptionKey) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	Zero(k.key)
	k.key = nil
}
