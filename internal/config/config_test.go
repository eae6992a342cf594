package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FHIR_BASE_URL", "http://fhir.internal:8080/fhir")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.FHIRTimeout != 30*time.Second {
		t.Errorf("expected default FHIR timeout 30s, got %s", cfg.FHIRTimeout)
	}
	if cfg.LockTTL != 10*time.Second {
		t.Errorf("expected default lock TTL 10s, got %s", cfg.LockTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestValidate_FHIRBaseURLRequired(t *testing.T) {
	cfg := &Config{LockTTL: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing FHIR_BASE_URL")
	}

	cfg.FHIRBaseURL = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for relative FHIR_BASE_URL")
	}
}

func TestValidate_LockTTL(t *testing.T) {
	cfg := &Config{FHIRBaseURL: "http://fhir.internal/fhir"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive LOCK_TTL")
	}
}
