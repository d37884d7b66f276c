package migration

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies every pending embedded migration.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(embeddedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, migrationsDir)
}
