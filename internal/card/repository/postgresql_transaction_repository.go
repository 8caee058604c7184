// Package repository persists card transaction records. Records are insert-only:
// no update or delete statement exists for card_transactions.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// PostgreSQLTransactionRepository implements transaction persistence for PostgreSQL.
type PostgreSQLTransactionRepository struct {
	db *sql.DB
}

// NewPostgreSQLTransactionRepository creates a new PostgreSQL transaction repository.
func NewPostgreSQLTransactionRepository(db *sql.DB) *PostgreSQLTransactionRepository {
	return &PostgreSQLTransactionRepository{db: db}
}

// Create inserts record. A duplicate token returns ErrTransactionAlreadyExists and
// leaves the existing row untouched.
func (p *PostgreSQLTransactionRepository) Create(ctx context.Context, record *cardDomain.TransactionRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO card_transactions (token, ciphertext, nonce, algorithm, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.Token.String(),
		record.Ciphertext,
		record.Nonce,
		string(record.Algorithm),
		record.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return cardDomain.ErrTransactionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create card transaction")
	}
	return nil
}

// Get returns the record stored under token or ErrTransactionNotFound.
func (p *PostgreSQLTransactionRepository) Get(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT token, ciphertext, nonce, algorithm, created_at
			  FROM card_transactions WHERE token = $1`

	var record cardDomain.TransactionRecord
	var storedToken, algorithm string

	err := querier.QueryRowContext(ctx, query, token.String()).Scan(
		&storedToken,
		&record.Ciphertext,
		&record.Nonce,
		&algorithm,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cardDomain.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card transaction")
	}

	record.Token = cardDomain.Token(storedToken)
	record.Algorithm = cryptoDomain.Algorithm(algorithm)
	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}

// isPostgreSQLUniqueViolation reports SQLSTATE 23505 (unique_violation).
func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
