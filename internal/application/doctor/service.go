package doctor

import (
	"context"
	"fmt"
	"slices"
	"time"

	appconfig "github.com/doeshing/heartrisk-go/internal/application/config"
	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	ModelLister    ports.ModelLister
	// ProbeTimeout bounds the backend reachability check.
	ProbeTimeout time.Duration
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", "valid"))
	}

	if u, err := cfg.BackendURL(); err != nil {
		checks = append(checks, fail("Backend URL", err.Error()))
	} else {
		checks = append(checks, ok("Backend URL", fmt.Sprintf("%s (%s encoding)", u, cfg.Backend.Encoding)))
	}

	checks = append(checks, s.modelsCheck(ctx, cfg)...)

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) modelsCheck(ctx context.Context, cfg domain.Config) []domain.HealthCheck {
	if !cfg.Models.Fetch {
		models := cfg.StaticModels()
		return []domain.HealthCheck{
			ok("Backend models", fmt.Sprintf("fetch disabled, %d configured", len(models))),
			recommendedCheck(cfg.Models.Recommended, models),
		}
	}
	if s.ModelLister == nil {
		return []domain.HealthCheck{warn("Backend models", "prediction client not initialized")}
	}

	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	models, err := s.ModelLister.ListModels(probeCtx)
	if err != nil {
		return []domain.HealthCheck{fail("Backend models", err.Error())}
	}
	if len(models) == 0 {
		return []domain.HealthCheck{fail("Backend models", "backend returned an empty model list")}
	}
	return []domain.HealthCheck{
		ok("Backend models", fmt.Sprintf("%d available", len(models))),
		recommendedCheck(cfg.Models.Recommended, models),
	}
}

func recommendedCheck(recommended string, models []string) domain.HealthCheck {
	switch {
	case recommended == "":
		return warn("Recommended model", "not configured, the first listed model is used")
	case slices.Contains(models, recommended):
		return ok("Recommended model", recommended)
	default:
		return warn("Recommended model", fmt.Sprintf("%s not offered, the first listed model is used", recommended))
	}
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
