package usecase

import (
	"context"
	"log/slog"
	"time"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardService "github.com/allisson/cardvault/internal/card/service"
	"github.com/allisson/cardvault/internal/database"
)

// cardUseCase implements CardUseCase.
type cardUseCase struct {
	txManager      database.TxManager
	repo           TransactionRepository
	reader         DeviceReader
	validator      cardService.Validator
	tokenizer      cardService.Tokenizer
	processor      PaymentProcessor
	captureTimeout time.Duration
	logger         *slog.Logger
}

// Capture sequences capturing, validating, tokenizing, persisting and processing.
//
// The record is persisted before settlement and is not rolled back when settlement
// fails: the aborted outcome then still carries the token of the stored record.
func (c *cardUseCase) Capture(ctx context.Context) cardDomain.Outcome {
	c.enter(cardDomain.StateCapturing)
	raw, err := c.reader.Capture(ctx, c.captureTimeout)
	if err != nil {
		return c.abort(ctx, cardDomain.ReasonNoData, err)
	}
	defer raw.Wipe()

	c.enter(cardDomain.StateValidating)
	if !c.validator.Validate(raw) {
		return c.abort(ctx, cardDomain.ReasonInvalidData, cardDomain.ErrInvalidData)
	}

	c.enter(cardDomain.StateTokenizing)
	record, err := c.tokenizer.Tokenize(raw)
	if err != nil {
		return c.abort(ctx, cardDomain.ReasonCryptoFailure, err)
	}
	raw.Wipe()

	c.enter(cardDomain.StatePersisting)
	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		return c.repo.Create(ctx, record)
	})
	if err != nil {
		return c.abort(ctx, cardDomain.ReasonStorageFailure, err)
	}

	c.enter(cardDomain.StateProcessing)
	status, err := c.processor.Process(ctx, record)
	if err != nil {
		outcome := c.abort(ctx, cardDomain.ReasonProcessingFailure, err)
		outcome.Token = record.Token
		c.logger.Warn("transaction stored without settlement", slog.String("token", record.Token.String()))
		return outcome
	}

	c.logger.Info("capture completed",
		slog.String("token", record.Token.String()),
		slog.String("settlement", string(status)),
	)
	return cardDomain.Done(record.Token, status)
}

// Lookup loads the record, authenticates its ciphertext and discards the plaintext.
func (c *cardUseCase) Lookup(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionMetadata, error) {
	record, err := c.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	raw, err := c.tokenizer.Open(record)
	if err != nil {
		c.logger.Error("stored transaction failed integrity check",
			slog.String("token", token.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	raw.Wipe()

	return record.Metadata(), nil
}

func (c *cardUseCase) enter(state cardDomain.State) {
	c.logger.Debug("capture pipeline", slog.String("state", string(state)))
}

// abort logs the failure and builds the aborted outcome. err must never carry card data.
func (c *cardUseCase) abort(ctx context.Context, reason cardDomain.AbortReason, err error) cardDomain.Outcome {
	level := slog.LevelError
	if reason.IsClientError() {
		level = slog.LevelInfo
	}
	c.logger.Log(ctx, level, "capture aborted",
		slog.String("reason", string(reason)),
		slog.Any("error", err),
	)
	return cardDomain.Aborted(reason)
}

// NewCardUseCase creates a new CardUseCase.
func NewCardUseCase(
	txManager database.TxManager,
	repo TransactionRepository,
	reader DeviceReader,
	validator cardService.Validator,
	tokenizer cardService.Tokenizer,
	processor PaymentProcessor,
	captureTimeout time.Duration,
	logger *slog.Logger,
) CardUseCase {
	return &cardUseCase{
		txManager:      txManager,
		repo:           repo,
		reader:         reader,
		validator:      validator,
		tokenizer:      tokenizer,
		processor:      processor,
		captureTimeout: captureTimeout,
		logger:         logger,
	}
}
