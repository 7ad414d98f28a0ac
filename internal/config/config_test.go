package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 5000 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.SessionBackend != BackendRedis {
		t.Fatalf("unexpected backend: %s", cfg.SessionBackend)
	}
	if cfg.WatsonVersion != "2018-02-16" {
		t.Fatalf("unexpected watson version: %s", cfg.WatsonVersion)
	}
	if cfg.RedisAddr() != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %s", cfg.RedisAddr())
	}
}

func TestValidateNamesMissingVariable(t *testing.T) {
	cfg := &Config{
		AppSecret:       "s",
		ValidationToken: "",
		PageAccessToken: "t",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error for missing validation token")
	}
	if !strings.Contains(err.Error(), "MESSENGER_VALIDATION_TOKEN") {
		t.Fatalf("error must name the missing variable, got %v", err)
	}
}

func TestValidateOK(t *testing.T) {
	cfg := &Config{
		AppSecret:       "s",
		ValidationToken: "v",
		PageAccessToken: "t",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_PORT_VALUE", "8123")
	if got := getEnvInt("TEST_PORT_VALUE", 5000); got != 8123 {
		t.Fatalf("expected 8123, got %d", got)
	}
	t.Setenv("TEST_PORT_VALUE", "not-a-number")
	if got := getEnvInt("TEST_PORT_VALUE", 5000); got != 5000 {
		t.Fatalf("expected fallback 5000, got %d", got)
	}
}
