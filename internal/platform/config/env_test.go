package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"FAIRSQUARES_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Blocks uint64 `env:"BLOCKS" envDefault:"7"`
	Name   string `env:"NAME"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("FAIRSQUARES_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	t.Setenv("FAIRSQUARES_TEST_NAME", "estate")
	t.Setenv("NAME", "ignored")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, "FAIRSQUARES_TEST_"); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Name != "estate" {
		t.Fatalf("name = %q, want %q", cfg.Name, "estate")
	}
	if cfg.Blocks != 7 {
		t.Fatalf("blocks = %d, want 7", cfg.Blocks)
	}
}

func TestParseEnvWithPrefixError(t *testing.T) {
	t.Setenv("FAIRSQUARES_TEST_BLOCKS", "-1")

	var cfg prefixedTestConfig
	err := ParseEnvWithPrefix(&cfg, "FAIRSQUARES_TEST_")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "FAIRSQUARES_TEST_*") {
		t.Fatalf("expected prefix in error, got %v", err)
	}
}
