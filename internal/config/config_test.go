package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.RestoreTimeout != 2*time.Second {
		t.Fatalf("expected restore timeout 2s, got %v", cfg.RestoreTimeout)
	}
	if cfg.LoginAttemptMax != 5 {
		t.Fatalf("expected 5 login attempts, got %d", cfg.LoginAttemptMax)
	}
	if cfg.SeedAdminEmail != "" || cfg.SeedAdminPassword != "" {
		t.Fatalf("expected no seeded credentials by default")
	}
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without SESSION_SECRET")
	}
}
