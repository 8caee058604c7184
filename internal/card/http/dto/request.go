// Package dto provides data transfer objects for card HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/cardvault/internal/validation"
)

// LookupRequest holds the path parameters of a transaction lookup.
type LookupRequest struct {
	Token string
}

// Validate checks that Token is a canonical transaction token.
func (r *LookupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, customValidation.Token),
	)
}
