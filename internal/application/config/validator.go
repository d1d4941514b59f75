package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if _, err := cfg.BackendURL(); err != nil {
		return err
	}
	if !cfg.Backend.Encoding.Valid() {
		return fmt.Errorf("backend.encoding must be string|integer, got %q", cfg.Backend.Encoding)
	}
	if _, err := cfg.BackendTimeout(); err != nil {
		return err
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateServer(cfg); err != nil {
		return err
	}
	return validateLog(cfg.Log)
}

func validateServer(cfg domain.Config) error {
	if cfg.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server.addr invalid: %w", err)
	}
	if _, err := cfg.SessionTTL(); err != nil {
		return err
	}
	if _, err := cfg.ShutdownTimeout(); err != nil {
		return err
	}
	for _, origin := range cfg.Server.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return errors.New("server.cors_origins must not contain empty entries")
		}
	}
	return nil
}

func validateLog(log domain.LogConfig) error {
	switch strings.ToLower(log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug|info|warn|error, got %s", log.Level)
	}
	switch strings.ToLower(log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text|json, got %s", log.Format)
	}
	return nil
}
