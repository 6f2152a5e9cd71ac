package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected default addr %q", cfg.App.Addr())
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("unexpected default request timeout %v", cfg.App.RequestTimeout())
	}
	if cfg.Incident.SuppressionWindow() != 15*time.Minute {
		t.Fatalf("unexpected default suppression window %v", cfg.Incident.SuppressionWindow())
	}
	if cfg.Incident.MaxTraversalDevices != 5000 {
		t.Fatalf("unexpected default traversal ceiling %d", cfg.Incident.MaxTraversalDevices)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("INCIDENT_SUPPRESSION_WINDOW_MINUTES", "5")
	t.Setenv("INCIDENT_MAX_TRAVERSAL_DEVICES", "100")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.App.Port)
	}
	if cfg.Incident.SuppressionWindow() != 5*time.Minute {
		t.Fatalf("expected 5m suppression window, got %v", cfg.Incident.SuppressionWindow())
	}
	if cfg.Incident.MaxTraversalDevices != 100 {
		t.Fatalf("expected traversal ceiling 100, got %d", cfg.Incident.MaxTraversalDevices)
	}
	// A malformed int keeps the default.
	if cfg.Auth.AccessTokenTTLMinutes != 60 {
		t.Fatalf("expected fallback ttl 60, got %d", cfg.Auth.AccessTokenTTLMinutes)
	}
}
