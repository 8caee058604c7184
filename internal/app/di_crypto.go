package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

type cryptoComponents struct {
	aeadManager   cryptoService.AEADManager
	kmsService    cryptoService.KMSService
	kmsKeeper     cryptoDomain.KMSKeeper
	encryptionKey *cryptoDomain.EncryptionKey

	aeadManagerInit   sync.Once
	kmsServiceInit    sync.Once
	kmsKeeperInit     sync.Once
	encryptionKeyInit sync.Once
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper wrapping the encryption key, or nil when no KMS
// provider is configured.
func (c *Container) KMSKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	err := c.lazy(&c.kmsKeeperInit, "kmsKeeper", func() error {
		if c.config.KMSProvider == "" {
			return nil
		}
		keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSProvider, c.config.KMSKeyURI)
		if err != nil {
			return err
		}
		c.kmsKeeper = keeper
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.kmsKeeper, nil
}

// EncryptionKey returns the process encryption key, loaded once from ENCRYPTION_KEY
// or ENCRYPTION_KEY_FILE and unwrapped through KMS when configured. Shutdown wipes it.
func (c *Container) EncryptionKey(ctx context.Context) (*cryptoDomain.EncryptionKey, error) {
	err := c.lazy(&c.encryptionKeyInit, "encryptionKey", func() error {
		keeper, err := c.KMSKeeper(ctx)
		if err != nil {
			return fmt.Errorf("failed to open kms keeper: %w", err)
		}

		key, err := cryptoDomain.LoadEncryptionKey(ctx, cryptoDomain.KeySource{
			Key:     c.config.EncryptionKey,
			KeyFile: c.config.EncryptionKeyFile,
			Keeper:  keeper,
		}, cryptoDomain.Algorithm(c.config.EncryptionAlgorithm))
		if err != nil {
			return fmt.Errorf("failed to load encryption key: %w", err)
		}

		c.encryptionKey = key
		c.Logger().Info("encryption key loaded",
			slog.String("algorithm", c.config.EncryptionAlgorithm),
			slog.String("kms_provider", c.config.KMSProvider),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.encryptionKey, nil
}
