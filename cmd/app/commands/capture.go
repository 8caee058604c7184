package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
)

// ErrCaptureAborted is returned by RunCapture when the pipeline did not reach done,
// so the process exits non-zero.
var ErrCaptureAborted = errors.New("capture aborted")

// RunCapture performs one capture from the configured device and prints the outcome.
// On success only the token and settlement status are printed. An aborted capture
// prints the abort reason, plus the token when the record was already persisted.
func RunCapture(
	ctx context.Context,
	useCase cardUseCase.CardUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("waiting for card data")
	outcome := useCase.Capture(ctx)

	if format == "json" {
		if err := writeJSON(writer, captureOutput(outcome)); err != nil {
			return err
		}
	} else if err := writeCaptureText(writer, outcome); err != nil {
		return err
	}

	if !outcome.IsDone() {
		return fmt.Errorf("%w: %s", ErrCaptureAborted, outcome.Reason)
	}
	return nil
}

func captureOutput(outcome cardDomain.Outcome) map[string]any {
	result := map[string]any{"status": string(outcome.State)}
	if outcome.Token != "" {
		result["token"] = outcome.Token.String()
	}
	if outcome.IsDone() {
		result["settlement_status"] = string(outcome.Settlement)
	} else {
		result["reason"] = string(outcome.Reason)
	}
	return result
}

func writeCaptureText(w io.Writer, outcome cardDomain.Outcome) error {
	if outcome.IsDone() {
		_, err := fmt.Fprintf(w, "Token: %s\nSettlement: %s\n", outcome.Token, outcome.Settlement)
		return err
	}

	if _, err := fmt.Fprintf(w, "Capture aborted: %s\n", outcome.Reason); err != nil {
		return err
	}
	if outcome.Token != "" {
		_, err := fmt.Fprintf(w, "Token: %s\n", outcome.Token)
		return err
	}
	return nil
}
