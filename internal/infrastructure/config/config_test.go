package config

import (
	"strings"
	"testing"
	"time"
)

func TestDatabaseDriver(t *testing.T) {
	cases := map[string]string{
		"":           "postgres",
		"PostgreSQL": "postgres",
		"pgx":        "postgres",
		"sqlite":     "sqlite3",
		"sqlite3":    "sqlite3",
	}
	for in, want := range cases {
		cfg := &Config{Database: DatabaseConfig{Driver: in}}
		got, err := cfg.DatabaseDriver()
		if err != nil {
			t.Fatalf("driver %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("driver %q: got %q want %q", in, got, want)
		}
	}
	if _, err := (&Config{Database: DatabaseConfig{Driver: "mysql"}}).DatabaseDriver(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5433, Name: "lingo", User: "app", Password: "p@ss", SSLMode: "disable",
	}}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if dsn != "postgres://app:p%40ss@db:5433/lingo?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", dsn)
	}

	cfg = &Config{Database: DatabaseConfig{Driver: "sqlite3", Name: "dev"}}
	dsn, err = cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("sqlite url: %v", err)
	}
	if !strings.HasPrefix(dsn, "file:dev.db") {
		t.Fatalf("unexpected sqlite dsn %q", dsn)
	}

	cfg.Database.DSN = "file::memory:"
	if dsn, _ := cfg.DatabaseURL(); dsn != "file::memory:" {
		t.Fatalf("explicit dsn should win, got %q", dsn)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("LEARNING_MESSAGES_LIMIT", "42")
	t.Setenv("SYNC_INTERVAL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Fatalf("expected sqlite3 driver, got %q", cfg.Database.Driver)
	}
	if cfg.Learning.MessagesLimit != 42 {
		t.Fatalf("expected messages limit 42, got %d", cfg.Learning.MessagesLimit)
	}
	if cfg.Sync.Interval != 90*time.Second {
		t.Fatalf("expected 90s interval, got %s", cfg.Sync.Interval)
	}
	if cfg.Sync.IdleTimeout != 30*time.Minute {
		t.Fatalf("expected default idle timeout 30m, got %s", cfg.Sync.IdleTimeout)
	}
	if cfg.Tutor.Model != "google/gemini-2.5-flash" {
		t.Fatalf("unexpected default model %q", cfg.Tutor.Model)
	}
}
