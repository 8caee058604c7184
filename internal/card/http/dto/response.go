package dto

import (
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// CaptureResponse is returned when a capture reaches the done state.
type CaptureResponse struct {
	Status           string `json:"status"`
	Token            string `json:"token"`
	SettlementStatus string `json:"settlement_status"`
}

// CaptureErrorResponse is returned when a capture aborts. Error is the abort reason.
// Token is only present when the record was stored before settlement failed.
type CaptureErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// TransactionResponse exposes the non-sensitive metadata of a transaction.
type TransactionResponse struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

var abortMessages = map[cardDomain.AbortReason]string{
	cardDomain.ReasonNoData:            "No card data was read from the device",
	cardDomain.ReasonInvalidData:       "The card data was rejected",
	cardDomain.ReasonCryptoFailure:     "An internal error occurred",
	cardDomain.ReasonStorageFailure:    "An internal error occurred",
	cardDomain.ReasonProcessingFailure: "The transaction was stored but settlement did not complete",
}

// MapOutcomeToCaptureResponse converts a done outcome to a capture response.
func MapOutcomeToCaptureResponse(outcome cardDomain.Outcome) CaptureResponse {
	return CaptureResponse{
		Status:           "success",
		Token:            outcome.Token.String(),
		SettlementStatus: string(outcome.Settlement),
	}
}

// MapOutcomeToCaptureErrorResponse converts an aborted outcome to an error body.
func MapOutcomeToCaptureErrorResponse(outcome cardDomain.Outcome) CaptureErrorResponse {
	return CaptureErrorResponse{
		Error:   string(outcome.Reason),
		Message: abortMessages[outcome.Reason],
		Token:   outcome.Token.String(),
	}
}

// MapMetadataToTransactionResponse converts transaction metadata to an API response.
func MapMetadataToTransactionResponse(metadata *cardDomain.TransactionMetadata) TransactionResponse {
	return TransactionResponse{
		Token:     metadata.Token.String(),
		CreatedAt: metadata.CreatedAt,
	}
}
