package domain

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Rich domain model: configuration lookups live next to the config type.

// Valid reports whether e names a supported wire contract.
func (e Encoding) Valid() bool {
	return e == EncodingString || e == EncodingInteger
}

// ParseEncoding accepts "string" or "integer" in any case.
func ParseEncoding(raw string) (Encoding, error) {
	e := Encoding(strings.ToLower(strings.TrimSpace(raw)))
	if !e.Valid() {
		return "", fmt.Errorf("unknown backend encoding %q (want %q or %q)", raw, EncodingString, EncodingInteger)
	}
	return e, nil
}

// BackendURL parses the configured base URL.
func (c *Config) BackendURL() (*url.URL, error) {
	raw := strings.TrimSpace(c.Backend.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("backend.base_url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend.base_url must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend.base_url has no host: %q", raw)
	}
	return u, nil
}

// BackendTimeout returns the per-request timeout; zero means no explicit timeout.
func (c *Config) BackendTimeout() (time.Duration, error) {
	return parseDuration("backend.timeout", c.Backend.Timeout, 0)
}

// SessionTTL returns how long an idle web session is kept.
func (c *Config) SessionTTL() (time.Duration, error) {
	return parseDuration("server.session_ttl", c.Server.SessionTTL, DefaultSessionTTL)
}

// ShutdownTimeout bounds graceful server shutdown.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

// StaticModels returns the configured model list without duplicates or blanks.
func (c *Config) StaticModels() []string {
	out := make([]string, 0, len(c.Models.Available))
	for _, name := range c.Models.Available {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// HasStaticModel checks whether name is in the configured list.
func (c *Config) HasStaticModel(name string) bool {
	return slices.Contains(c.StaticModels(), name)
}

// ValidateConsistency checks relationships between sections.
func (c *Config) ValidateConsistency() error {
	if !c.Models.Fetch && len(c.StaticModels()) == 0 {
		return fmt.Errorf("models.available is empty and models.fetch is disabled")
	}
	if !c.Models.Fetch && c.Models.Recommended != "" && !c.HasStaticModel(c.Models.Recommended) {
		return fmt.Errorf("recommended model %s does not exist in models.available", c.Models.Recommended)
	}
	if err := c.Form.Defaults.Validate(); err != nil {
		return fmt.Errorf("form.defaults: %w", err)
	}
	return nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
