package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardMocks "github.com/allisson/cardvault/internal/card/usecase/mocks"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

func TestRunLookup(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)

	t.Run("Success_Text", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		mockUseCase.On("Lookup", ctx, testToken).
			Return(&cardDomain.TransactionMetadata{Token: testToken, CreatedAt: createdAt}, nil)

		var out bytes.Buffer
		err := RunLookup(ctx, mockUseCase, &out, testToken.String(), "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Token: "+testToken.String())
		assert.Contains(t, out.String(), "Created at: 2026-03-14T15:09:26.535Z")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_JSONNormalizesUppercaseToken", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		mockUseCase.On("Lookup", ctx, testToken).
			Return(&cardDomain.TransactionMetadata{Token: testToken, CreatedAt: createdAt}, nil)

		var out bytes.Buffer
		err := RunLookup(ctx, mockUseCase, &out, "3F1C9A52-7A7E-4B8E-9A55-0F4F1A2B3C4D", "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"token": "`+testToken.String()+`"`)
		assert.Contains(t, out.String(), `"created_at": "2026-03-14T15:09:26.535Z"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedToken", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		err := RunLookup(ctx, mockUseCase, &bytes.Buffer{}, "not-a-token", "text")

		require.ErrorIs(t, err, cardDomain.ErrInvalidToken)
		mockUseCase.AssertNotCalled(t, "Lookup")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		mockUseCase.On("Lookup", ctx, testToken).Return(nil, apperrors.ErrNotFound)

		var out bytes.Buffer
		err := RunLookup(ctx, mockUseCase, &out, testToken.String(), "text")

		require.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, out.String())
	})
}
