package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// RunCreateEncryptionKey generates a 32-byte data encryption key and prints it as
// ENCRYPTION_KEY. When kmsProvider is set the key is wrapped by the KMS keeper first,
// and the printed value is the base64 KMS ciphertext. Key bytes are zeroed before return.
//
// For local development, use kmsProvider="localsecrets" with kmsKeyURI="base64key://...".
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri must be set together")
	}

	key, err := cryptoService.GenerateKey()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	if kmsProvider == "" {
		logger.Warn("encryption key generated without KMS, store it in a secrets manager")
		_, err := fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(key))
		return err
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsProvider, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}

	logger.Info("encryption key generated", slog.String("kms_provider", kmsProvider))
	_, err = fmt.Fprintf(
		writer,
		"# Copy these environment variables to your .env file or secrets manager\nKMS_PROVIDER=\"%s\"\nKMS_KEY_URI=\"%s\"\nENCRYPTION_KEY=\"%s\"\n",
		kmsProvider,
		kmsKeyURI,
		base64.StdEncoding.EncodeToString(ciphertext),
	)
	return err
}
