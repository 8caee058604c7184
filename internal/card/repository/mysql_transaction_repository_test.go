package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

var (
	mysqlInsertQuery = regexp.QuoteMeta(`INSERT INTO card_transactions (token, ciphertext, nonce, algorithm, created_at)
			  VALUES (?, ?, ?, ?, ?)`)
	mysqlSelectQuery = regexp.QuoteMeta(`FROM card_transactions WHERE token = ?`)
)

func newMySQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func TestMySQLTransactionRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Insert", func(t *testing.T) {
		db, mock := newMySQLMock(t)
		repo := NewMySQLTransactionRepository(db)
		record := newRecord(t)

		mock.ExpectExec(mysqlInsertQuery).
			WithArgs(record.Token.String(), record.Ciphertext, record.Nonce, "aes-gcm", record.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEntryIsConflict", func(t *testing.T) {
		db, mock := newMySQLMock(t)
		repo := NewMySQLTransactionRepository(db)

		mock.ExpectExec(mysqlInsertQuery).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'PRIMARY'"})

		err := repo.Create(ctx, newRecord(t))
		assert.ErrorIs(t, err, cardDomain.ErrTransactionAlreadyExists)
	})

	t.Run("Error_OtherMySQLErrorIsStorageFailure", func(t *testing.T) {
		db, mock := newMySQLMock(t)
		repo := NewMySQLTransactionRepository(db)

		mock.ExpectExec(mysqlInsertQuery).
			WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

		err := repo.Create(ctx, newRecord(t))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestMySQLTransactionRepository_Get(t *testing.T) {
	ctx := context.Background()
	columns := []string{"token", "ciphertext", "nonce", "algorithm", "created_at"}

	t.Run("Success_Found", func(t *testing.T) {
		db, mock := newMySQLMock(t)
		repo := NewMySQLTransactionRepository(db)
		record := newRecord(t)

		mock.ExpectQuery(mysqlSelectQuery).
			WithArgs(record.Token.String()).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				record.Token.String(), record.Ciphertext, record.Nonce, "aes-gcm", record.CreatedAt,
			))

		got, err := repo.Get(ctx, record.Token)
		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMySQLMock(t)
		repo := NewMySQLTransactionRepository(db)

		mock.ExpectQuery(mysqlSelectQuery).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, cardDomain.NewToken())
		assert.ErrorIs(t, err, cardDomain.ErrTransactionNotFound)
	})
}
