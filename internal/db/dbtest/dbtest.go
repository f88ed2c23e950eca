// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/celosave/savings/internal/db"
	"github.com/jmoiron/sqlx"
)

// Open returns a fresh database in t's temp dir with all migrations applied.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn := filepath.Join(t.TempDir(), "savings.db") + "?_pragma=busy_timeout(5000)"

	database, err := db.Init(ctx, db.DriverSQLite, conn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close(database) })

	err = db.RunMigrations(ctx, database.DB, db.DriverSQLite)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return database
}
