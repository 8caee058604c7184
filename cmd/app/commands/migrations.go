package commands

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/allisson/cardvault/internal/database"
)

// RunMigrations applies pending migrations for driver from migrationsRoot/<driver dir>.
// migrationsRoot is a golang-migrate source URL such as "file://migrations".
func RunMigrations(logger *slog.Logger, db *sql.DB, driver, migrationsRoot string) error {
	dir, err := database.MigrationsDir(driver)
	if err != nil {
		return err
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	applied, err := database.Migrate(db, driver, fmt.Sprintf("%s/%s", migrationsRoot, dir))
	if err != nil {
		return err
	}

	if !applied {
		logger.Info("no pending migrations")
		return nil
	}
	logger.Info("migrations completed successfully")
	return nil
}
