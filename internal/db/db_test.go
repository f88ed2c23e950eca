package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrationsUpDown(t *testing.T) {
	ctx := context.Background()
	conn := filepath.Join(t.TempDir(), "nested", "savings.db")

	database, err := Init(ctx, DriverSQLite, conn)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close(database)

	err = RunMigrations(ctx, database.DB, DriverSQLite)
	if err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	var count int
	err = database.Get(&count, `SELECT COUNT(*) FROM savings_goals`)
	if err != nil {
		t.Fatalf("savings_goals not created: %v", err)
	}

	err = MigrateDown(ctx, database.DB, DriverSQLite)
	if err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}

	err = database.Get(&count, `SELECT COUNT(*) FROM savings_goals`)
	if err == nil {
		t.Error("savings_goals still exists after MigrateDown")
	}
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := Init(context.Background(), "mysql", "whatever")
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
