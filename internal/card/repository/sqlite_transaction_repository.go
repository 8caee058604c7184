package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// SQLiteTransactionRepository implements transaction persistence for embedded SQLite.
type SQLiteTransactionRepository struct {
	db *sql.DB
}

// NewSQLiteTransactionRepository creates a new SQLite transaction repository.
func NewSQLiteTransactionRepository(db *sql.DB) *SQLiteTransactionRepository {
	return &SQLiteTransactionRepository{db: db}
}

// Create inserts record. A duplicate token returns ErrTransactionAlreadyExists.
func (s *SQLiteTransactionRepository) Create(ctx context.Context, record *cardDomain.TransactionRecord) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO card_transactions (token, ciphertext, nonce, algorithm, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.Token.String(),
		record.Ciphertext,
		record.Nonce,
		string(record.Algorithm),
		record.CreatedAt.UTC(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return cardDomain.ErrTransactionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create card transaction")
	}
	return nil
}

// Get returns the record stored under token or ErrTransactionNotFound.
func (s *SQLiteTransactionRepository) Get(
	ctx context.Context,
	token cardDomain.Token,
) (*cardDomain.TransactionRecord, error) {
	querier := database.GetTx(ctx, s.db)

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

// isSQLiteUniqueViolation reports a PRIMARY KEY or UNIQUE constraint failure.
func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
