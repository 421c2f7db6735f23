package pgstore

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies every pending migration under migrations_versioned,
// grounded on cmd/server/main.go's file://migrations_versioned + migrate.New
// boot-time call.
func Migrate(databaseURL string) error {
	m, err := migrate.New("file://migrations_versioned", databaseURL)
	if err != nil {
		return fmt.Errorf("initialize migrations: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
