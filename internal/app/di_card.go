package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/allisson/cardvault/internal/apikey"
	cardHTTP "github.com/allisson/cardvault/internal/card/http"
	cardRepository "github.com/allisson/cardvault/internal/card/repository"
	cardService "github.com/allisson/cardvault/internal/card/service"
	cardUseCase "github.com/allisson/cardvault/internal/card/usecase"
	"github.com/allisson/cardvault/internal/device"
	"github.com/allisson/cardvault/internal/settlement"
)

type cardComponents struct {
	deviceReader     *device.Reader
	validator        cardService.Validator
	tokenizer        cardService.Tokenizer
	transactionRepo  cardUseCase.TransactionRepository
	natsConn         *nats.Conn
	paymentProcessor cardUseCase.PaymentProcessor
	cardUseCase      cardUseCase.CardUseCase
	cardHandler      *cardHTTP.CardHandler
	apiKeyService    *apikey.Service

	deviceReaderInit     sync.Once
	validatorInit        sync.Once
	tokenizerInit        sync.Once
	transactionRepoInit  sync.Once
	paymentProcessorInit sync.Once
	cardUseCaseInit      sync.Once
	cardHandlerInit      sync.Once
	apiKeyServiceInit    sync.Once
}

// DeviceReader returns the serial card reader.
func (c *Container) DeviceReader() *device.Reader {
	c.deviceReaderInit.Do(func() {
		c.deviceReader = device.NewReader(
			device.NewSerialOpener(c.config.DevicePort, c.config.DeviceBaudRate),
			device.Config{
				ReadTimeout: c.config.DeviceReadTimeout,
				Terminator:  []byte(c.config.DeviceTerminator),
			},
			c.Logger(),
		)
	})
	return c.deviceReader
}

// Validator returns the card data validator selected by CARD_VALIDATOR.
func (c *Container) Validator() (cardService.Validator, error) {
	err := c.lazy(&c.validatorInit, "validator", func() error {
		var err error
		c.validator, err = cardService.NewValidator(c.config.CardValidator)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.validator, nil
}

// Tokenizer returns the tokenizer bound to the process encryption key.
func (c *Container) Tokenizer(ctx context.Context) (cardService.Tokenizer, error) {
	err := c.lazy(&c.tokenizerInit, "tokenizer", func() error {
		key, err := c.EncryptionKey(ctx)
		if err != nil {
			return err
		}
		c.tokenizer = cardService.NewTokenizer(key, c.AEADManager())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.tokenizer, nil
}

// TransactionRepository returns the repository matching DB_DRIVER.
func (c *Container) TransactionRepository() (cardUseCase.TransactionRepository, error) {
	err := c.lazy(&c.transactionRepoInit, "transactionRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for transaction repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.transactionRepo = cardRepository.NewPostgreSQLTransactionRepository(db)
		case "mysql":
			c.transactionRepo = cardRepository.NewMySQLTransactionRepository(db)
		case "sqlite":
			c.transactionRepo = cardRepository.NewSQLiteTransactionRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.transactionRepo, nil
}

// PaymentProcessor returns the settlement processor selected by SETTLEMENT_PROVIDER.
func (c *Container) PaymentProcessor() (cardUseCase.PaymentProcessor, error) {
	err := c.lazy(&c.paymentProcessorInit, "paymentProcessor", func() error {
		switch c.config.SettlementProvider {
		case "noop":
			c.paymentProcessor = settlement.NewNoopProcessor()
		case "nats":
			conn, err := settlement.Connect(settlement.ConnConfig{
				URL:   c.config.NATSURL,
				Token: c.config.NATSToken,
				Name:  "cardvault",
			})
			if err != nil {
				return err
			}
			c.natsConn = conn
			c.paymentProcessor = settlement.NewNATSProcessor(
				conn,
				c.config.SettlementSubject,
				c.config.SettlementTimeout,
				c.Logger(),
			)
		default:
			return fmt.Errorf("unsupported settlement provider: %s", c.config.SettlementProvider)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.paymentProcessor, nil
}

// CardUseCase returns the capture pipeline, wrapped with metrics when enabled.
func (c *Container) CardUseCase(ctx context.Context) (cardUseCase.CardUseCase, error) {
	err := c.lazy(&c.cardUseCaseInit, "cardUseCase", func() error {
		var err error
		c.cardUseCase, err = c.initCardUseCase(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.cardUseCase, nil
}

// CardHandler returns the card HTTP handler.
func (c *Container) CardHandler(ctx context.Context) (*cardHTTP.CardHandler, error) {
	err := c.lazy(&c.cardHandlerInit, "cardHandler", func() error {
		useCase, err := c.CardUseCase(ctx)
		if err != nil {
			return fmt.Errorf("failed to get card use case for card handler: %w", err)
		}
		c.cardHandler = cardHTTP.NewCardHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.cardHandler, nil
}

// APIKeyService returns the API key service configured with API_KEY_HASHES.
func (c *Container) APIKeyService() (*apikey.Service, error) {
	err := c.lazy(&c.apiKeyServiceInit, "apiKeyService", func() error {
		var err error
		c.apiKeyService, err = apikey.NewService(apikey.ParseHashes(c.config.APIKeyHashes))
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.apiKeyService, nil
}

func (c *Container) initCardUseCase(ctx context.Context) (cardUseCase.CardUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for card use case: %w", err)
	}

	repo, err := c.TransactionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction repository for card use case: %w", err)
	}

	validator, err := c.Validator()
	if err != nil {
		return nil, fmt.Errorf("failed to get validator for card use case: %w", err)
	}

	tokenizer, err := c.Tokenizer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer for card use case: %w", err)
	}

	processor, err := c.PaymentProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment processor for card use case: %w", err)
	}

	useCase := cardUseCase.NewCardUseCase(
		txManager,
		repo,
		c.DeviceReader(),
		validator,
		tokenizer,
		processor,
		c.config.CaptureTimeout,
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for card use case: %w", err)
	}
	return cardUseCase.NewCardUseCaseWithMetrics(useCase, businessMetrics), nil
}
