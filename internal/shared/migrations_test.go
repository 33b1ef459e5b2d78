package shared

import "testing"

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='export_runs'").Scan(&name)
		if err != nil {
			t.Fatalf("expected export_runs table: %v", err)
		}

		// Re-running is a no-op
		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected idempotent migrations, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 applied migration, got %d", count)
		}
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='export_runs'").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema: %v", err)
		}
		if count != 0 {
			t.Error("expected export_runs table to be dropped")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when no migrations remain")
		}
	})
}
