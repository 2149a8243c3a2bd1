package config

import "testing"

func TestLoadEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DEMANDPLAN_SEED", "not-a-number")
	t.Setenv("DEMANDPLAN_PARALLEL", "maybe")

	cfg := LoadEnv()
	if cfg.Run.Seed != 42 {
		t.Errorf("Expected default seed 42, got %d", cfg.Run.Seed)
	}
	if cfg.Run.Parallel {
		t.Errorf("Expected parallel to default to false")
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("DEMANDPLAN_SEED", "7")
	t.Setenv("DEMANDPLAN_OUTPUT_DIR", "/tmp/out")
	t.Setenv("DEMANDPLAN_PARALLEL", "true")
	t.Setenv("DEMANDPLAN_FORMAT", "JSON")
	t.Setenv("DEMANDPLAN_SQL_DRIVER", "SQLite")
	t.Setenv("DEMANDPLAN_SQL_DSN", "file:demand.db")
	t.Setenv("LOGGER_LEVEL", "debug")

	cfg := LoadEnv()
	if cfg.Run.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", cfg.Run.Seed)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("Expected output dir /tmp/out, got %s", cfg.Output.Dir)
	}
	if !cfg.Run.Parallel {
		t.Errorf("Expected parallel true")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format json, got %s", cfg.Output.Format)
	}
	if cfg.SQL.Driver != "sqlite" || cfg.SQL.DSN != "file:demand.db" {
		t.Errorf("Expected sqlite target, got %+v", cfg.SQL)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Expected logger level debug, got %s", cfg.Logger.Level)
	}
}
