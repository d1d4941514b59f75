// Package config reads and writes ~/.heartrisk/config.yaml.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/heartrisk-go/assets"
	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/pkg/filesystem"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

// Environment variables read by the loader.
const (
	EnvConfigPath = "HEARTRISK_CONFIG"
	EnvBackendURL = "HEARTRISK_BACKEND_URL"
	EnvEncoding   = "HEARTRISK_ENCODING"
	EnvAddr       = "HEARTRISK_ADDR"
	EnvLogLevel   = "HEARTRISK_LOG_LEVEL"
)

// FileLoader loads YAML configuration from ~/.heartrisk/config.yaml (overridable via
// HEARTRISK_CONFIG). Environment overrides are applied on every Load but never saved.
type FileLoader struct {
	overridePath string
	getenv       func(string) string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, getenv: os.Getenv}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := l.LoadFile()
	if err != nil {
		return domain.Config{}, err
	}
	return l.applyEnv(cfg)
}

// LoadFile reads the file without environment overrides, writing the default config
// on first run.
func (l *FileLoader) LoadFile() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, fmt.Errorf("write default config: %w", err)
			}
			return DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	// Keys the file omits keep their default values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if custom := l.getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filepath.Join(filesystem.AppDir("heartrisk"), "config.yaml")
}

func (l *FileLoader) applyEnv(cfg domain.Config) (domain.Config, error) {
	if v := l.getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := l.getenv(EnvEncoding); v != "" {
		enc, err := domain.ParseEncoding(v)
		if err != nil {
			return domain.Config{}, fmt.Errorf("%s: %w", EnvEncoding, err)
		}
		cfg.Backend.Encoding = enc
	}
	if v := l.getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := l.getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return cfg, nil
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return err
	}
	return os.WriteFile(l.resolvePath(), raw, domain.SecureFilePermissions)
}

// Reset overwrites the config with the embedded defaults and returns them.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return domain.Config{}, err
	}
	if err := os.WriteFile(l.resolvePath(), assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return domain.Config{}, err
	}
	return DefaultConfig(), nil
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// DefaultConfig exposes the bootstrap configuration.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return fallbackConfig()
	}
	return hydrateDefaults(cfg)
}

// fallbackConfig is used only if the embedded YAML fails to parse.
func fallbackConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Backend: domain.BackendConfig{
			BaseURL:  domain.DefaultBaseURL,
			Encoding: domain.EncodingString,
			Timeout:  "0s",
		},
		Models: domain.ModelsConfig{
			Fetch:       true,
			Recommended: "Logistic Regression",
			Available:   []string{"Logistic Regression", "Random Forest", "Svc", "Xgboost"},
		},
		Form: domain.FormConfig{Defaults: domain.PatientAttributes{
			Age:               50,
			Sex:               domain.SexMale,
			ChestPain:         domain.ChestPainTypicalAngina,
			RestingBP:         120,
			Cholesterol:       200,
			FastingBloodSugar: true,
			RestECG:           domain.RestECGLVHypertrophy,
			MaxHeartRate:      150,
			ExerciseAngina:    false,
			STDepression:      1.0,
			STSlope:           domain.STSlopeDownsloping,
			MajorVessels:      0,
			Thalassemia:       domain.ThalFixedDefect,
		}},
		Server: domain.ServerConfig{
			Addr:            domain.DefaultAddr,
			SessionTTL:      "30m",
			ShutdownTimeout: "10s",
			CORSOrigins:     []string{"*"},
		},
		Log: domain.LogConfig{Level: "info", Format: "text"},
	}
}

// hydrateDefaults fills zero values of sections an older or hand-edited file omits.
func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Backend.Encoding == "" {
		cfg.Backend.Encoding = domain.EncodingString
	}
	if cfg.Form.Defaults == (domain.PatientAttributes{}) {
		cfg.Form.Defaults = fallbackConfig().Form.Defaults
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultAddr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
