package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSQLiteDB(t *testing.T) {
	db := SetupSQLiteDB(t)

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM card_transactions`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSetupSQLiteFileDB(t *testing.T) {
	db := SetupSQLiteFileDB(t)

	assert.Greater(t, db.Stats().MaxOpenConnections, 1)

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM card_transactions`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetMigrationsPath(t *testing.T) {
	t.Run("Success_FindsRepositoryMigrations", func(t *testing.T) {
		path, err := getMigrationsPath("sqlite")
		require.NoError(t, err)
		assert.Equal(t, "sqlite", filepath.Base(path))

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("Error_UnknownDirectory", func(t *testing.T) {
		_, err := getMigrationsPath("does-not-exist")
		assert.Error(t, err)
	})
}

func TestSetupPostgresDB_SkipsWithoutDSN(t *testing.T) {
	t.Setenv("TEST_POSTGRES_DSN", "")

	ran := t.Run("inner", func(t *testing.T) {
		SetupPostgresDB(t)
		t.Fatal("expected skip")
	})
	assert.True(t, ran)
}
