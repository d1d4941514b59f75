package config

import (
	"strings"
	"testing"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Backend:             domain.BackendConfig{BaseURL: "http://127.0.0.1:8000", Encoding: domain.EncodingString, Timeout: "0s"},
		Models:              domain.ModelsConfig{Fetch: true, Recommended: "Logistic Regression"},
		Form: domain.FormConfig{Defaults: domain.PatientAttributes{
			Sex:         domain.SexMale,
			ChestPain:   domain.ChestPainTypicalAngina,
			RestECG:     domain.RestECGNormal,
			STSlope:     domain.STSlopeFlat,
			Thalassemia: domain.ThalNormal,
		}},
		Server: domain.ServerConfig{Addr: ":8080", SessionTTL: "30m"},
		Log:    domain.LogConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "bad url", mutate: func(c *domain.Config) { c.Backend.BaseURL = "127.0.0.1" }, wantErr: "base_url"},
		{name: "bad encoding", mutate: func(c *domain.Config) { c.Backend.Encoding = "csv" }, wantErr: "backend.encoding"},
		{name: "bad timeout", mutate: func(c *domain.Config) { c.Backend.Timeout = "soon" }, wantErr: "backend.timeout"},
		{name: "bad addr", mutate: func(c *domain.Config) { c.Server.Addr = "8080" }, wantErr: "server.addr"},
		{name: "bad log level", mutate: func(c *domain.Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "bad default enum", mutate: func(c *domain.Config) { c.Form.Defaults.Thalassemia = 0 }, wantErr: "form.defaults"},
		{
			name: "static models without recommended",
			mutate: func(c *domain.Config) {
				c.Models = domain.ModelsConfig{Available: []string{"Svc"}, Recommended: "Xgboost"}
			},
			wantErr: "recommended",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
