package commands

import (
	"context"

	"github.com/doeshing/heartrisk-go/internal/app"
	configinfra "github.com/doeshing/heartrisk-go/internal/infrastructure/config"
)

// Runtime carries the persistent flags and builds the container on first use, after
// cobra has parsed them.
type Runtime struct {
	ConfigPath string
	Verbose    bool

	container *app.Container
}

// Container returns the wired dependency graph.
func (r *Runtime) Container(ctx context.Context) (*app.Container, error) {
	if r.container != nil {
		return r.container, nil
	}
	c, err := app.BuildContainer(ctx, app.Options{ConfigPath: r.ConfigPath, Verbose: r.Verbose})
	if err != nil {
		return nil, err
	}
	r.container = c
	return c, nil
}

// Loader returns a config loader without building the rest of the graph, so config
// subcommands still work when the file holds invalid values.
func (r *Runtime) Loader() *configinfra.FileLoader {
	return configinfra.NewFileLoader(r.ConfigPath)
}
