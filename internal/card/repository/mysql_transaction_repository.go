package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLTransactionRepository implements transaction persistence for MySQL.
// The DSN must set parseTime=true.
type MySQLTransactionRepository struct {
	db *sql.DB
}

// NewMySQLTransactionRepository creates a new MySQL transaction repository.
func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

// Create inserts record. A duplicate token returns ErrTransactionAlreadyExists.
func (m *MySQLTransactionRepository) Create(ctx context.Context, record *cardDomain.TransactionRecord) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO card_transactions (token, ciphertext, nonce, algorithm, created_at)
			  VALUES (?, ?, ?, ?, ?)`

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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return cardDomain.ErrTransactionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create card transaction")
	}
	return nil
}

// Get returns the record stored under token or ErrTransactionNotFound.
func (m *MySQLTransactionRepository) Get(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token, ciphertext, nonce, algorithm, created_at
			  FROM card_transactions WHERE token = ?`

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
