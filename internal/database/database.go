package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens a gorm connection for the given URI and runs any pending
// migrations. Postgres URIs are recognized by their scheme; anything else is
// treated as a sqlite DSN (path or file: URI).
func NewDatabase(uri string) (*gorm.DB, error) {
	log.Println("Connecting to database...")

	var dialector gorm.Dialector
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") {
		dialector = postgres.Open(uri)
	} else {
		dialector = sqlite.Open(SqliteDSN(uri))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("error running database migrations: %w", err)
	}

	log.Println("Database connection established.")
	return db, nil
}

// SqliteDSN appends the driver flag that enables foreign key enforcement,
// which sqlite leaves off by default. The flag is part of the DSN so that
// every pooled connection gets it, not just the one a PRAGMA would run on.
func SqliteDSN(uri string) string {
	if strings.Contains(uri, "_fk=") || strings.Contains(uri, "_foreign_keys=") {
		return uri
	}
	if strings.Contains(uri, "?") {
		return uri + "&_fk=1"
	}
	return uri + "?_fk=1"
}
