// Package apikey generates API keys and verifies presented keys against argon2id hashes.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

// Service generates API keys and checks presented keys against configured hashes.
type Service struct {
	hasher *pwdhash.PasswordHasher
	hashes []string

	// verified holds SHA-256 digests of keys that already matched a hash.
	verified sync.Map
}

// NewService creates a Service accepting keys that match one of hashes.
func NewService(hashes []string) (*Service, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &Service{hasher: hasher, hashes: hashes}, nil
}

// ParseHashes splits a semicolon-separated hash list and drops blanks. Commas
// cannot separate entries because they appear inside argon2id parameters.
func ParseHashes(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ";")
	hashes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			hashes = append(hashes, trimmed)
		}
	}
	return hashes
}

// Enabled reports whether at least one hash is configured.
func (s *Service) Enabled() bool {
	return len(s.hashes) > 0
}

// Generate creates a new random 32-byte key, URL-safe base64 encoded, and its hash.
func (s *Service) Generate() (plainKey string, hashedKey string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api key")
	}

	plainKey = base64.URLEncoding.EncodeToString(randomBytes)

	hashedKey, err = s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash api key")
	}

	return plainKey, hashedKey, nil
}

// Verify reports whether plainKey matches one of the configured hashes.
func (s *Service) Verify(plainKey string) bool {
	if plainKey == "" {
		return false
	}

	digest := sha256.Sum256([]byte(plainKey))
	if _, ok := s.verified.Load(digest); ok {
		return true
	}

	for _, hash := range s.hashes {
		ok, err := s.hasher.Verify([]byte(plainKey), hash)
		if err == nil && ok {
			s.verified.Store(digest, struct{}{})
			return true
		}
	}
	return false
}
