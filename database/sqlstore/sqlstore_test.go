package sqlstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nasermirzaei89/talkboard/database/sqlstore"
	"github.com/nasermirzaei89/talkboard/settings"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	return newTestDBWithSettings(t, settings.Defaults())
}

func newTestDBWithSettings(t *testing.T, resolved settings.Settings) *sql.DB {
	t.Helper()

	ctx := context.Background()

	db, err := sqlstore.NewDB(ctx, sqlstore.DialectSQLite, filepath.Join(t.TempDir(), "talkboard.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	schema, err := sqlstore.NewSchema(sqlstore.DialectSQLite, resolved)
	require.NoError(t, err)

	err = sqlstore.MigrateUp(ctx, db, schema)
	require.NoError(t, err)

	return db
}

func seedRows(t *testing.T, db *sql.DB, table string, ids ...string) {
	t.Helper()

	for _, id := range ids {
		_, err := db.ExecContext(context.Background(), "INSERT INTO "+table+" (id) VALUES (?)", id)
		require.NoError(t, err)
	}
}

func seedUsers(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()

	seedRows(t, db, "account_user", ids...)
}

func seedSections(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()

	seedRows(t, db, "section_section", ids...)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int

	err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count)
	require.NoError(t, err)

	return count
}

func ptr[T any](v T) *T {
	return &v
}
