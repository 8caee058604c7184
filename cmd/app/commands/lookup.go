package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
)

// RunLookup prints the metadata of the transaction stored under token.
// Card data is never printed.
func RunLookup(
	ctx context.Context,
	useCase cardUseCase.CardUseCase,
	writer io.Writer,
	rawToken string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	token, err := cardDomain.ParseToken(rawToken)
	if err != nil {
		return err
	}

	metadata, err := useCase.Lookup(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up transaction: %w", err)
	}

	createdAt := metadata.CreatedAt.UTC().Format(time.RFC3339Nano)
	if format == "json" {
		return writeJSON(writer, map[string]any{
			"token":      metadata.Token.String(),
			"created_at": createdAt,
		})
	}

	_, err = fmt.Fprintf(writer, "Token: %s\nCreated at: %s\n", metadata.Token, createdAt)
	return err
}
