package service

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// TestTokenizer_RoundTrip verifies Open(Tokenize(raw)) == raw for arbitrary payloads.
func TestTokenizer_RoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		tk := NewTokenizer(newTestKey(t, alg), cryptoService.NewAEADManager())

		properties.Property(string(alg)+": open reproduces the captured bytes", prop.ForAll(
			func(payload []byte) bool {
				raw := cardDomain.RawCardData(payload)
				record, err := tk.Tokenize(raw)
				if err != nil {
					return false
				}
				opened, err := tk.Open(record)
				if err != nil {
					return false
				}
				return bytes.Equal(opened, raw)
			},
			gen.SliceOf(gen.UInt8()),
		))
	}

	properties.TestingRun(t)
}

// TestTokenizer_TokensNeverRepeat verifies that tokenizing the same payload twice
// yields distinct tokens and distinct ciphertexts.
func TestTokenizer_TokensNeverRepeat(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	tk := NewTokenizer(newTestKey(t, cryptoDomain.AESGCM), cryptoService.NewAEADManager())
	seen := make(map[cardDomain.Token]struct{})

	properties.Property("independent tokenize calls never share a token", prop.ForAll(
		func(pan string) bool {
			r1, err1 := tk.Tokenize(cardDomain.RawCardData(pan))
			r2, err2 := tk.Tokenize(cardDomain.RawCardData(pan))
			if err1 != nil || err2 != nil {
				return false
			}
			if r1.Token == r2.Token || bytes.Equal(r1.Ciphertext, r2.Ciphertext) {
				return false
			}
			for _, token := range []cardDomain.Token{r1.Token, r2.Token} {
				if _, dup := seen[token]; dup {
					return false
				}
				seen[token] = struct{}{}
			}
			return true
		},
		gen.NumString(),
	))

	properties.TestingRun(t)
}
