// Package sqlstore persists talks, comments and votes in a SQL database.
//
// Integrity rules (cascading deletes, set-null on section removal, the
// comment target check and vote uniqueness) live in the schema under
// migrations/, which is rendered per dialect and per resolved settings.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (dialect Dialect) IsValid() bool {
	switch dialect {
	case DialectSQLite, DialectPostgres:
		return true
	default:
		return false
	}
}

func (dialect Dialect) placeholderFormat() sq.PlaceholderFormat {
	if dialect == DialectPostgres {
		return sq.Dollar
	}

	return sq.Question
}

func (dialect Dialect) statementBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(dialect.placeholderFormat())
}

type UnknownDialectError struct {
	Dialect Dialect
}

func (err UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown database dialect: %q", err.Dialect)
}

func NewDB(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	if !dialect.IsValid() {
		return nil, &UnknownDialectError{Dialect: dialect}
	}

	if dialect == DialectSQLite {
		dsn = withForeignKeys(dsn)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql db: %w", err)
	}

	if dialect == DialectSQLite {
		// sqlite has a single writer; one connection also keeps in-memory databases shared.
		db.SetMaxOpenConns(1)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping sql db: %w", err)
	}

	return db, nil
}

// withForeignKeys turns on foreign key enforcement for every sqlite connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "_pragma=foreign_keys(1)"
}

func getMigrateInstance(db *sql.DB, schema Schema) (*migrate.Migrate, error) {
	d, err := iofs.New(schema.migrationsFS(), "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	switch schema.Dialect {
	case DialectSQLite:
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
		}

		m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}

		return m, nil
	case DialectPostgres:
		driver, err := migratepostgres.WithInstance(db, &migratepostgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres driver: %w", err)
		}

		m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}

		return m, nil
	default:
		return nil, &UnknownDialectError{Dialect: schema.Dialect}
	}
}

func MigrateUp(ctx context.Context, db *sql.DB, schema Schema) error {
	m, err := getMigrateInstance(db, schema)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migration: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get current active migration version: %w", err)
	}

	slog.InfoContext(ctx, "migration applied successfully", "version", version, "dirty", dirty)

	return nil
}

func MigrateDown(ctx context.Context, db *sql.DB, schema Schema) error {
	m, err := getMigrateInstance(db, schema)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migration down: %w", err)
	}

	slog.InfoContext(ctx, "migrations reverted successfully")

	return nil
}
