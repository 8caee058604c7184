package service

import (
	"fmt"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// Validator names accepted by NewValidator.
const (
	ValidatorAcceptAll = "accept-all"
	ValidatorLuhn      = "luhn"
)

// NewValidator returns the validator registered under name.
func NewValidator(name string) (Validator, error) {
	switch name {
	case ValidatorAcceptAll:
		return NewAcceptAllValidator(), nil
	case ValidatorLuhn:
		return NewLuhnValidator(), nil
	default:
		return nil, fmt.Errorf("unknown card validator %q", name)
	}
}

type acceptAllValidator struct{}

// NewAcceptAllValidator returns a Validator that accepts every non-empty payload.
// Integrators substitute their own card-network rules through the Validator interface.
func NewAcceptAllValidator() Validator {
	return &acceptAllValidator{}
}

func (v *acceptAllValidator) Validate(raw cardDomain.RawCardData) bool {
	return !raw.IsEmpty()
}

const (
	minPANLength = 12
	maxPANLength = 19
)

type luhnValidator struct{}

// NewLuhnValidator returns a Validator accepting 12 to 19 ASCII digits with a valid
// Luhn check digit. Separators and track framing are rejected.
func NewLuhnValidator() Validator {
	return &luhnValidator{}
}

func (v *luhnValidator) Validate(raw cardDomain.RawCardData) bool {
	if len(raw) < minPANLength || len(raw) > maxPANLength {
		return false
	}

	sum := 0
	double := false
	for i := len(raw) - 1; i >= 0; i-- {
		c := raw[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
