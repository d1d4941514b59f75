package app

import (
	"context"
	"fmt"

	"github.com/doeshing/heartrisk-go/internal/application/compare"
	appconfig "github.com/doeshing/heartrisk-go/internal/application/config"
	"github.com/doeshing/heartrisk-go/internal/application/doctor"
	"github.com/doeshing/heartrisk-go/internal/application/form"
	"github.com/doeshing/heartrisk-go/internal/application/session"
	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/infrastructure/config"
	"github.com/doeshing/heartrisk-go/internal/infrastructure/predictor"
	"github.com/doeshing/heartrisk-go/internal/infrastructure/web"
	"github.com/doeshing/heartrisk-go/internal/pkg/logger"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

// Options are the process-level switches that influence wiring.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Client         ports.PredictionClient
	ModelLister    ports.ModelLister
	Sessions       *session.Store
	CompareService *compare.Service
	DoctorService  *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", cfgLoader.Path(), err)
	}

	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: opts.Verbose,
	})

	timeout, err := cfg.BackendTimeout()
	if err != nil {
		return nil, err
	}
	client, err := predictor.NewClient(predictor.Options{
		BaseURL:  cfg.Backend.BaseURL,
		Encoding: cfg.Backend.Encoding,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("prediction client: %w", err)
	}

	var lister ports.ModelLister = predictor.StaticModels(cfg.StaticModels())
	if cfg.Models.Fetch {
		lister = client
	}

	ttl, err := cfg.SessionTTL()
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Client:         client,
		ModelLister:    lister,
		CompareService: &compare.Service{
			Predictor: client,
			Logger:    log,
			Limit:     domain.DefaultCompareConcurrency,
		},
		DoctorService: &doctor.Service{
			ConfigProvider: cfgLoader,
			ModelLister:    lister,
			ProbeTimeout:   domain.DefaultProbeTimeout,
		},
	}
	c.Sessions = session.NewStore(c.NewSession, ttl, domain.MaxSessions)
	return c, nil
}

// NewSession starts a session from the configured defaults. When the model list is
// fetched from the backend, the fetch happens here; a failure leaves the session
// without models and with the no-models notice set.
func (c *Container) NewSession(ctx context.Context, id string) *session.Session {
	settings := form.Settings{
		Defaults:    c.Config.Form.Defaults,
		Recommended: c.Config.Models.Recommended,
	}
	if !c.Config.Models.Fetch {
		settings.Models = c.Config.StaticModels()
	}

	sess := session.New(id, form.NewController(settings), c.Client, c.Logger)
	if c.Config.Models.Fetch {
		_ = sess.LoadModels(ctx, c.ModelLister)
	}
	return sess
}

// NewWebServer builds the HTTP surface over the session store.
func (c *Container) NewWebServer() (*web.Server, error) {
	return web.NewServer(web.Deps{
		Sessions:  c.Sessions,
		Predictor: c.Client,
		Models:    c.ModelLister,
		Config:    c.Config,
		Logger:    c.Logger,
	})
}
