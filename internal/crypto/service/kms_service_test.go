package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localSecretsURI generates a base64key:// URI for tests.
func localSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kms := NewKMSService()

	t.Run("Success_LocalSecretsRoundTrip", func(t *testing.T) {
		keeper, err := kms.OpenKeeper(ctx, "localsecrets", localSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		key := newKey(t)
		wrapped, err := keeper.Encrypt(ctx, key)
		require.NoError(t, err)
		assert.NotEqual(t, key, wrapped)

		unwrapped, err := keeper.Decrypt(ctx, wrapped)
		require.NoError(t, err)
		assert.Equal(t, key, unwrapped)
	})

	t.Run("Error_DifferentKeeperCannotUnwrap", func(t *testing.T) {
		k1, err := kms.OpenKeeper(ctx, "localsecrets", localSecretsURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, k1.Close()) }()
		k2, err := kms.OpenKeeper(ctx, "localsecrets", localSecretsURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, k2.Close()) }()

		wrapped, err := k1.Encrypt(ctx, []byte("key material"))
		require.NoError(t, err)

		_, err = k2.Decrypt(ctx, wrapped)
		assert.Error(t, err)
	})

	t.Run("Error_UnknownProvider", func(t *testing.T) {
		keeper, err := kms.OpenKeeper(ctx, "oracle", localSecretsURI(t))
		assert.ErrorContains(t, err, "unknown KMS provider")
		assert.Nil(t, keeper)
	})

	t.Run("Error_SchemeMismatch", func(t *testing.T) {
		keeper, err := kms.OpenKeeper(ctx, "aws", localSecretsURI(t))
		assert.ErrorContains(t, err, "does not match provider")
		assert.Nil(t, keeper)
	})

	t.Run("Error_InvalidKeyMaterial", func(t *testing.T) {
		keeper, err := kms.OpenKeeper(ctx, "localsecrets", "base64key://c2hvcnQ=")
		assert.ErrorContains(t, err, "failed to open KMS keeper")
		assert.Nil(t, keeper)
	})
}
