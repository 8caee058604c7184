package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// providerSchemes maps KMS_PROVIDER values to the URL scheme gocloud registers for them.
var providerSchemes = map[string]string{
	"google":       "gcpkms",
	"aws":          "awskms",
	"azure":        "azurekeyvault",
	"hashivault":   "hashivault",
	"localsecrets": "base64key",
}

// KMSService opens keepers that wrap and unwrap the encryption key.
type KMSService interface {
	OpenKeeper(ctx context.Context, provider, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens keyURI after checking its scheme matches provider.
func (k *kmsService) OpenKeeper(ctx context.Context, provider, keyURI string) (cryptoDomain.KMSKeeper, error) {
	scheme, ok := providerSchemes[provider]
	if !ok {
		return nil, fmt.Errorf("unknown KMS provider %q", provider)
	}

	u, err := url.Parse(keyURI)
	if err != nil {
		return nil, fmt.Errorf("invalid KMS key URI: %w", err)
	}
	if u.Scheme != scheme {
		return nil, fmt.Errorf("KMS key URI scheme %q does not match provider %q", u.Scheme, provider)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
