package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "schedule.db")

	db, err := Open(ctx, Config{Driver: "sqlite3", Path: path, BusyTimeout: time.Second})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.Dialect.Name)

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	t.Run("reopen keeps data", func(t *testing.T) {
		_, err := db.ExecContext(ctx, "INSERT INTO employees (name) VALUES ('Alice')")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		again, err := Open(ctx, Config{Driver: "sqlite", Path: path})
		require.NoError(t, err)
		defer again.Close()

		var n int
		require.NoError(t, again.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&n))
		assert.Equal(t, 1, n)
	})
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: "sqlite", Path: "  "})
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgresql")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d.Name)

	query, _, err := d.Builder().Select("id").From("employees").Where(sq.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM employees WHERE id = $1", query)

	d, err = DialectFor("")
	require.NoError(t, err)
	query, _, err = d.Builder().Select("id").From("employees").Where(sq.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM employees WHERE id = ?", query)
}

func TestSQLiteDSN(t *testing.T) {
	dsn := sqliteDSN("/tmp/x.db", 2*time.Second)
	assert.Contains(t, dsn, "file:/tmp/x.db?")
	assert.Contains(t, dsn, "foreign_keys%281%29")
	assert.Contains(t, dsn, "busy_timeout%282000%29")

	assert.NotContains(t, sqliteDSN(":memory:", 0), "journal_mode")
}
