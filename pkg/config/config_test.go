package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Checker.DefaultTopK != 5 {
		t.Errorf("Checker.DefaultTopK = %d, want 5", cfg.Checker.DefaultTopK)
	}
	if cfg.Checker.MaxTopK != 25 {
		t.Errorf("Checker.MaxTopK = %d, want 25", cfg.Checker.MaxTopK)
	}
	if cfg.Redis.SessionTTL != 24*time.Hour {
		t.Errorf("Redis.SessionTTL = %v, want 24h", cfg.Redis.SessionTTL)
	}
	if cfg.Kafka.Topics.CheckEvents != "check-events" {
		t.Errorf("Kafka.Topics.CheckEvents = %q, want check-events", cfg.Kafka.Topics.CheckEvents)
	}
}

func TestLoadFromFile(t *testing.T) {
	yaml := `
server:
  port: 9999
checker:
  defaultTopK: 3
postgres:
  database: testdb
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Checker.DefaultTopK != 3 {
		t.Errorf("Checker.DefaultTopK = %d, want 3", cfg.Checker.DefaultTopK)
	}
	if cfg.Postgres.Database != "testdb" {
		t.Errorf("Postgres.Database = %q, want testdb", cfg.Postgres.Database)
	}
	// Unspecified fields keep their defaults.
	if cfg.Checker.MaxTopK != 25 {
		t.Errorf("Checker.MaxTopK = %d, want default 25", cfg.Checker.MaxTopK)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load with missing file should fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SC_SERVER_PORT", "7070")
	t.Setenv("SC_POSTGRES_HOST", "db.internal")
	t.Setenv("SC_CHECKER_DEFAULT_TOP_K", "7")
	t.Setenv("SC_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q, want db.internal", cfg.Postgres.Host)
	}
	if cfg.Checker.DefaultTopK != 7 {
		t.Errorf("Checker.DefaultTopK = %d, want 7", cfg.Checker.DefaultTopK)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v, want [k1:9092 k2:9092]", cfg.Kafka.Brokers)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432,
		User: "u", Password: "p", Database: "d", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=u password=p dbname=d sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
