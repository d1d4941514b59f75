package domain_test

import (
	"testing"
	"time"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

// TestConfig_BackendURL tests base URL validation
func TestConfig_BackendURL(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		wantError bool
	}{
		{name: "http url", baseURL: "http://127.0.0.1:8000"},
		{name: "https url with path", baseURL: "https://predict.example.org/api"},
		{name: "empty", baseURL: "", wantError: true},
		{name: "missing scheme", baseURL: "localhost:8000", wantError: true},
		{name: "unsupported scheme", baseURL: "ftp://example.org", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Backend: domain.BackendConfig{BaseURL: tt.baseURL}}
			_, err := cfg.BackendURL()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestConfig_Durations tests duration parsing with fallbacks
func TestConfig_Durations(t *testing.T) {
	cfg := domain.Config{}
	if ttl, err := cfg.SessionTTL(); err != nil || ttl != domain.DefaultSessionTTL {
		t.Errorf("SessionTTL() = %v, %v; want default", ttl, err)
	}
	if timeout, err := cfg.BackendTimeout(); err != nil || timeout != 0 {
		t.Errorf("BackendTimeout() = %v, %v; want 0", timeout, err)
	}

	cfg.Backend.Timeout = "2s"
	if timeout, err := cfg.BackendTimeout(); err != nil || timeout != 2*time.Second {
		t.Errorf("BackendTimeout() = %v, %v; want 2s", timeout, err)
	}

	cfg.Server.SessionTTL = "-1m"
	if _, err := cfg.SessionTTL(); err == nil {
		t.Error("expected error for negative ttl")
	}
}

// TestConfig_ValidateConsistency tests cross-section checks
func TestConfig_ValidateConsistency(t *testing.T) {
	base := domain.Config{Form: domain.FormConfig{Defaults: defaultRecord()}}

	tests := []struct {
		name      string
		models    domain.ModelsConfig
		wantError bool
	}{
		{name: "fetch without static list", models: domain.ModelsConfig{Fetch: true}},
		{name: "static list with recommended", models: domain.ModelsConfig{Available: []string{"Svc"}, Recommended: "Svc"}},
		{name: "no source of models", models: domain.ModelsConfig{}, wantError: true},
		{name: "recommended not listed", models: domain.ModelsConfig{Available: []string{"Svc"}, Recommended: "Xgboost"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Models = tt.models
			err := cfg.ValidateConsistency()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_StaticModels(t *testing.T) {
	cfg := domain.Config{Models: domain.ModelsConfig{Available: []string{"Svc", " ", "Svc", "Random Forest"}}}
	got := cfg.StaticModels()
	if len(got) != 2 || got[0] != "Svc" || got[1] != "Random Forest" {
		t.Errorf("StaticModels() = %v", got)
	}
}

func TestParseEncoding(t *testing.T) {
	if e, err := domain.ParseEncoding(" Integer "); err != nil || e != domain.EncodingInteger {
		t.Errorf("ParseEncoding(Integer) = %q, %v", e, err)
	}
	if _, err := domain.ParseEncoding("protobuf"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
