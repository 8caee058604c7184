// Package mocks provides testify mock implementations of the card pipeline collaborators.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// MockTxManager runs fn inline unless an error is configured.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of database.TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

// Create mocks the Create method of TransactionRepository.
func (m *MockTransactionRepository) Create(ctx context.Context, record *cardDomain.TransactionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Get mocks the Get method of TransactionRepository.
func (m *MockTransactionRepository) Get(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardDomain.TransactionRecord), args.Error(1)
}

// MockDeviceReader is a mock implementation of DeviceReader.
type MockDeviceReader struct {
	mock.Mock
}

// Capture mocks the Capture method of DeviceReader. The returned payload is a copy
// so the pipeline can wipe it without touching the configured value.
func (m *MockDeviceReader) Capture(ctx context.Context, budget time.Duration) (cardDomain.RawCardData, error) {
	args := m.Called(ctx, budget)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	raw := args.Get(0).(cardDomain.RawCardData)
	return append(cardDomain.RawCardData(nil), raw...), args.Error(1)
}

// MockValidator is a mock implementation of service.Validator.
type MockValidator struct {
	mock.Mock
}

// Validate mocks the Validate method of Validator.
func (m *MockValidator) Validate(raw cardDomain.RawCardData) bool {
	args := m.Called(raw)
	return args.Bool(0)
}

// MockTokenizer is a mock implementation of service.Tokenizer.
type MockTokenizer struct {
	mock.Mock
}

// Tokenize mocks the Tokenize method of Tokenizer.
func (m *MockTokenizer) Tokenize(raw cardDomain.RawCardData) (*cardDomain.TransactionRecord, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardDomain.TransactionRecord), args.Error(1)
}

// Open mocks the Open method of Tokenizer.
func (m *MockTokenizer) Open(record *cardDomain.TransactionRecord) (cardDomain.RawCardData, error) {
	args := m.Called(record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cardDomain.RawCardData), args.Error(1)
}

// MockPaymentProcessor is a mock implementation of PaymentProcessor.
type MockPaymentProcessor struct {
	mock.Mock
}

// Process mocks the Process method of PaymentProcessor.
func (m *MockPaymentProcessor) Process(
	ctx context.Context,
	record *cardDomain.TransactionRecord,
) (cardDomain.SettlementStatus, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(cardDomain.SettlementStatus), args.Error(1)
}

// MockCardUseCase is a mock implementation of CardUseCase.
type MockCardUseCase struct {
	mock.Mock
}

// Capture mocks the Capture method of CardUseCase.
func (m *MockCardUseCase) Capture(ctx context.Context) cardDomain.Outcome {
	args := m.Called(ctx)
	return args.Get(0).(cardDomain.Outcome)
}

// Lookup mocks the Lookup method of CardUseCase.
func (m *MockCardUseCase) Lookup(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionMetadata, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cardDomain.TransactionMetadata), args.Error(1)
}
