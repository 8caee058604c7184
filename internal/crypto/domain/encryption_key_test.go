package domain

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets/localsecrets"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func keyBytes(t *testing.T, k *EncryptionKey) []byte {
	t.Helper()
	var out []byte
	require.NoError(t, k.Use(func(key []byte) error {
		out = append(out, key...)
		return nil
	}))
	return out
}

func TestNewEncryptionKey(t *testing.T) {
	t.Run("Success_CopiesKey", func(t *testing.T) {
		raw := randomKey(t)
		k, err := NewEncryptionKey(raw, AESGCM)
		require.NoError(t, err)

		expected := append([]byte(nil), raw...)
		Zero(raw)
		assert.Equal(t, expected, keyBytes(t, k))
		assert.Equal(t, AESGCM, k.Algorithm())
	})

	t.Run("Error_InvalidKeySize", func(t *testing.T) {
		_, err := NewEncryptionKey(make([]byte, 16), AESGCM)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		_, err := NewEncryptionKey(randomKey(t), Algorithm("rot13"))
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})
}

func TestLoadEncryptionKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FromEnvValue", func(t *testing.T) {
		raw := randomKey(t)
		k, err := LoadEncryptionKey(ctx, KeySource{Key: base64.StdEncoding.EncodeToString(raw)}, ChaCha20)
		require.NoError(t, err)
		assert.Equal(t, raw, keyBytes(t, k))
		assert.Equal(t, ChaCha20, k.Algorithm())
	})

	t.Run("Success_FromFile", func(t *testing.T) {
		raw := randomKey(t)
		path := filepath.Join(t.TempDir(), "key")
		require.NoError(t, os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(raw)+"\n"), 0o600))

		k, err := LoadEncryptionKey(ctx, KeySource{KeyFile: path}, AESGCM)
		require.NoError(t, err)
		assert.Equal(t, raw, keyBytes(t, k))
	})

	t.Run("Success_KeyTakesPrecedenceOverFile", func(t *testing.T) {
		raw := randomKey(t)
		k, err := LoadEncryptionKey(ctx, KeySource{
			Key:     base64.StdEncoding.EncodeToString(raw),
			KeyFile: filepath.Join(t.TempDir(), "missing"),
		}, AESGCM)
		require.NoError(t, err)
		assert.Equal(t, raw, keyBytes(t, k))
	})

	t.Run("Success_UnwrapsThroughKMS", func(t *testing.T) {
		secret, err := localsecrets.NewRandomKey()
		require.NoError(t, err)
		keeper := localsecrets.NewKeeper(secret)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		raw := randomKey(t)
		wrapped, err := keeper.Encrypt(ctx, raw)
		require.NoError(t, err)

		k, err := LoadEncryptionKey(ctx, KeySource{
			Key:    base64.StdEncoding.EncodeToString(wrapped),
			Keeper: keeper,
		}, AESGCM)
		require.NoError(t, err)
		assert.Equal(t, raw, keyBytes(t, k))
	})

	t.Run("Error_NotSet", func(t *testing.T) {
		_, err := LoadEncryptionKey(ctx, KeySource{}, AESGCM)
		assert.ErrorIs(t, err, ErrEncryptionKeyNotSet)
	})

	t.Run("Error_MissingFile", func(t *testing.T) {
		_, err := LoadEncryptionKey(ctx, KeySource{KeyFile: filepath.Join(t.TempDir(), "missing")}, AESGCM)
		assert.ErrorContains(t, err, "failed to read encryption key file")
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		_, err := LoadEncryptionKey(ctx, KeySource{Key: "%%%"}, AESGCM)
		assert.ErrorIs(t, err, ErrInvalidEncryptionKeyBase64)
	})

	t.Run("Error_WrongSize", func(t *testing.T) {
		_, err := LoadEncryptionKey(ctx, KeySource{Key: base64.StdEncoding.EncodeToString([]byte("short"))}, AESGCM)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("Error_KMSUnwrapFails", func(t *testing.T) {
		secret, err := localsecrets.NewRandomKey()
		require.NoError(t, err)
		keeper := localsecrets.NewKeeper(secret)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, err = LoadEncryptionKey(ctx, KeySource{
			Key:    base64.StdEncoding.EncodeToString(randomKey(t)),
			Keeper: keeper,
		}, AESGCM)
		assert.ErrorContains(t, err, "failed to unwrap encryption key")
	})
}

func TestEncryptionKey_Close(t *testing.T) {
	raw := randomKey(t)
	k, err := NewEncryptionKey(raw, AESGCM)
	require.NoError(t, err)

	var held []byte
	require.NoError(t, k.Use(func(key []byte) error {
		held = key
		return nil
	}))

	k.Close()

	assert.True(t, bytes.Equal(held, make([]byte, KeySize)), "key bytes must be wiped")
	err = k.Use(func([]byte) error { return nil })
	assert.ErrorIs(t, err, ErrEncryptionKeyClosed)

	assert.NotPanics(t, k.Close)
}
