package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %s, want 8080", cfg.ServerPort)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
	if !cfg.Refresh.Enabled {
		t.Error("Refresh should default to enabled")
	}
	if cfg.Refresh.IntervalSeconds != 300 {
		t.Errorf("IntervalSeconds = %d, want 300", cfg.Refresh.IntervalSeconds)
	}
	if cfg.Kafka.Broker != "" {
		t.Errorf("Kafka broker should default to empty, got %s", cfg.Kafka.Broker)
	}
	if cfg.Kafka.Topic != "varlik_market_prices" {
		t.Errorf("Kafka topic = %s", cfg.Kafka.Topic)
	}
	if !strings.Contains(cfg.DatabaseDSN, "host=localhost") ||
		!strings.Contains(cfg.DatabaseDSN, "dbname=varlik") {
		t.Errorf("DatabaseDSN = %s", cfg.DatabaseDSN)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VARLIK_SERVER_PORT", "9999")
	t.Setenv("VARLIK_DEBUG", "true")
	t.Setenv("VARLIK_DB_HOST", "db.internal")
	t.Setenv("VARLIK_REFRESH_INTERVAL_SECONDS", "600")
	t.Setenv("VARLIK_KAFKA_BROKER", "kafka:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != "9999" || !cfg.Debug {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if cfg.Refresh.IntervalSeconds != 600 {
		t.Errorf("IntervalSeconds = %d, want 600", cfg.Refresh.IntervalSeconds)
	}
	if !strings.Contains(cfg.DatabaseDSN, "host=db.internal") {
		t.Errorf("DatabaseDSN = %s", cfg.DatabaseDSN)
	}
	if cfg.Kafka.Broker != "kafka:9092" {
		t.Errorf("Kafka broker = %s", cfg.Kafka.Broker)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("VARLIK_REFRESH_INTERVAL", "60") // misspelled, missing _SECONDS

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for unknown VARLIK_ key")
	}
	if !strings.Contains(err.Error(), "VARLIK_REFRESH_INTERVAL") {
		t.Errorf("Error does not name the offending key: %v", err)
	}
}

func TestLoadIntervalFloor(t *testing.T) {
	t.Setenv("VARLIK_REFRESH_INTERVAL_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Refresh.IntervalSeconds != 30 {
		t.Errorf("IntervalSeconds = %d, want 30s floor", cfg.Refresh.IntervalSeconds)
	}
}

func TestParseAPITokens(t *testing.T) {
	tokens, err := parseAPITokens("tok1:alice:admin, tok2:bob:user")
	if err != nil {
		t.Fatalf("parseAPITokens failed: %v", err)
	}
	if tokens["tok1"] != "alice:admin" || tokens["tok2"] != "bob:user" {
		t.Errorf("Tokens = %v", tokens)
	}

	if tokens, err := parseAPITokens(""); err != nil || len(tokens) != 0 {
		t.Errorf("Empty input: tokens=%v err=%v", tokens, err)
	}

	for _, bad := range []string{"tok1:alice", "tok1", ":alice:admin", "tok1::admin"} {
		if _, err := parseAPITokens(bad); err == nil {
			t.Errorf("parseAPITokens(%q) accepted invalid entry", bad)
		}
	}
}

func TestCheckUnknownKeysIgnoresForeignVars(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"HOME=/root",
		"VARLIK_DEBUG=true",
	}
	if err := checkUnknownKeys(environ); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	environ = append(environ, "VARLIK_TYPO=1", "VARLIK_OTHER=2")
	err := checkUnknownKeys(environ)
	if err == nil {
		t.Fatal("Expected error for unknown keys")
	}
	if !strings.Contains(err.Error(), "VARLIK_OTHER, VARLIK_TYPO") {
		t.Errorf("Keys not sorted in error: %v", err)
	}
}
