package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

var (
	// ErrNoData indicates the reader produced no complete record within the budget.
	ErrNoData = errors.Wrap(errors.ErrInvalidInput, "no card data captured")

	// ErrInvalidData indicates the validator rejected the captured payload.
	ErrInvalidData = errors.Wrap(errors.ErrInvalidInput, "card data rejected by validator")

	// ErrInvalidToken indicates a malformed token string.
	ErrInvalidToken = errors.Wrap(errors.ErrInvalidInput, "invalid token")

	// ErrTransactionNotFound indicates no record exists for the token.
	ErrTransactionNotFound = errors.Wrap(errors.ErrNotFound, "transaction not found")

	// ErrTransactionAlreadyExists indicates a record already exists for the token.
	ErrTransactionAlreadyExists = errors.Wrap(errors.ErrConflict, "transaction already exists")

	// ErrSettlementUnavailable indicates a transient settlement failure. Callers may retry.
	ErrSettlementUnavailable = errors.New("settlement temporarily unavailable")
)
