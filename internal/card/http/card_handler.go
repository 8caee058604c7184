// Package http provides HTTP handlers for card capture and transaction lookup.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/card/http/dto"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
	"github.com/allisson/cardvault/internal/httputil"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// CardHandler handles HTTP requests for card capture and transaction lookup.
type CardHandler struct {
	cardUseCase cardUseCase.CardUseCase
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler with required dependencies.
func NewCardHandler(cardUseCase cardUseCase.CardUseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
	}
}

// CaptureHandler triggers one capture from the card reader.
// POST /v1/cards/capture - no request body.
// Returns 200 with the token on success, 400 for no_data and invalid_data,
// 500 for crypto, storage and processing failures.
func (h *CardHandler) CaptureHandler(c *gin.Context) {
	outcome := h.cardUseCase.Capture(c.Request.Context())

	if outcome.IsDone() {
		c.JSON(http.StatusOK, dto.MapOutcomeToCaptureResponse(outcome))
		return
	}

	status := http.StatusInternalServerError
	if outcome.Reason.IsClientError() {
		status = http.StatusBadRequest
	}

	h.logger.Warn("capture request aborted",
		slog.String("reason", string(outcome.Reason)),
		slog.Int("status_code", status),
	)
	c.JSON(status, dto.MapOutcomeToCaptureErrorResponse(outcome))
}

// GetTransactionHandler returns the non-sensitive metadata of a transaction.
// GET /v1/transactions/:token
// Returns 200 with {token, created_at}, 422 for a malformed token, 404 when unknown,
// 500 when the stored record fails authentication or storage is unavailable.
func (h *CardHandler) GetTransactionHandler(c *gin.Context) {
	req := dto.LookupRequest{Token: c.Param("token")}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, err := cardDomain.ParseToken(req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	metadata, err := h.cardUseCase.Lookup(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMetadataToTransactionResponse(metadata))
}
