// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The form, session and doctor services depend only on
// these interfaces, so the prediction backend, the config file and the log sink can
// be swapped or stubbed in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., PredictionClient, ConfigProvider)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.heartrisk/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ModelLister fetches the identifiers of the models a backend can serve.
type ModelLister interface {
	ListModels(context.Context) ([]string, error)
}

// Predictor submits one patient record to one model.
// Errors are *domain.TransportError, *domain.ServerError or *domain.DecodeError.
type Predictor interface {
	Predict(context.Context, domain.PredictionRequest) (domain.PredictionOutcome, error)
}

// PredictionClient is the full remote backend contract.
type PredictionClient interface {
	ModelLister
	Predictor
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
