package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardMocks "github.com/allisson/cardvault/internal/card/usecase/mocks"
)

const testToken = cardDomain.Token("3f1c9a52-7a7e-4b8e-9a55-0f4f1a2b3c4d")

func TestRunCapture(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		outcome     cardDomain.Outcome
		format      string
		expectErr   bool
		contains    []string
		notContains []string
	}{
		{
			name:     "Success_Text",
			outcome:  cardDomain.Done(testToken, cardDomain.SettlementAccepted),
			format:   "text",
			contains: []string{"Token: " + testToken.String(), "Settlement: accepted"},
		},
		{
			name:     "Success_JSON",
			outcome:  cardDomain.Done(testToken, cardDomain.SettlementDeclined),
			format:   "json",
			contains: []string{`"status": "done"`, `"token": "` + testToken.String() + `"`, `"settlement_status": "declined"`},
		},
		{
			name:        "Error_NoData",
			outcome:     cardDomain.Aborted(cardDomain.ReasonNoData),
			format:      "text",
			expectErr:   true,
			contains:    []string{"Capture aborted: no_data"},
			notContains: []string{"Token:"},
		},
		{
			name: "Error_ProcessingFailureKeepsToken",
			outcome: cardDomain.Outcome{
				State:  cardDomain.StateAborted,
				Reason: cardDomain.ReasonProcessingFailure,
				Token:  testToken,
			},
			format:    "json",
			expectErr: true,
			contains:  []string{`"reason": "processing_failure"`, `"token": "` + testToken.String() + `"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := &cardMocks.MockCardUseCase{}
			mockUseCase.On("Capture", ctx).Return(tt.outcome)

			var out bytes.Buffer
			err := RunCapture(ctx, mockUseCase, logger, &out, tt.format)

			if tt.expectErr {
				require.ErrorIs(t, err, ErrCaptureAborted)
			} else {
				require.NoError(t, err)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out.String(), s)
			}
			mockUseCase.AssertExpectations(t)
		})
	}

	t.Run("Error_InvalidFormat", func(t *testing.T) {
		mockUseCase := &cardMocks.MockCardUseCase{}
		err := RunCapture(ctx, mockUseCase, logger, &bytes.Buffer{}, "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
		mockUseCase.AssertNotCalled(t, "Capture", ctx)
	})
}
