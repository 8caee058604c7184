package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

var (
	// ErrUnsupportedAlgorithm indicates an algorithm other than AESGCM or ChaCha20.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates key material that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionKeyNotSet indicates that neither ENCRYPTION_KEY nor ENCRYPTION_KEY_FILE is configured.
	ErrEncryptionKeyNotSet = errors.New("encryption key not set")

	// ErrInvalidEncryptionKeyBase64 indicates the configured key is not valid base64.
	ErrInvalidEncryptionKeyBase64 = errors.New("encryption key is not valid base64")

	// ErrEncryptionKeyClosed indicates use of a key after Close wiped it.
	ErrEncryptionKeyClosed = errors.New("encryption key closed")

	// ErrDecryptionFailed indicates an authentication failure on decrypt: wrong key,
	// wrong associated data, or corrupted ciphertext. The cause is never disclosed.
	//
	// It is deliberately not an input error. Stored ciphertext that fails to open
	// is a server-side integrity fault and must stay distinguishable from a missing record.
	ErrDecryptionFailed = errors.New("decryption failed")
)
