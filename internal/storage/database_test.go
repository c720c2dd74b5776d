package storage

import (
	"testing"

	"learnleap/internal/config"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Databases = map[string]config.DatabaseConfig{"sqlite3": {DSN: ":memory:"}}
	return cfg
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open("sqlite3", memoryConfig())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(db, "sqlite3"); err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
	}

	for _, table := range []string{"scholarships", "skills", "skill_scholarships", "tasks", "profiles", "profile_traits"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	if _, err := Open("postgres", cfg); err == nil {
		t.Fatalf("expected error for driver without config")
	}
	cfg.Databases["postgres"] = config.DatabaseConfig{DSN: "x"}
	if _, err := Open("postgres", cfg); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestMigrateUnknownDriver(t *testing.T) {
	db, err := Open("sqlite3", memoryConfig())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := Migrate(db, "oracle"); err == nil {
		t.Fatalf("expected unsupported migration driver error")
	}
}
