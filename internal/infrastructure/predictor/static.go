package predictor

import (
	"context"
	"slices"

	"github.com/doeshing/heartrisk-go/internal/ports"
)

// StaticModels serves a configured model list when fetching from the backend is
// disabled.
type StaticModels []string

// ListModels implements ports.ModelLister.
func (m StaticModels) ListModels(context.Context) ([]string, error) {
	return slices.Clone(m), nil
}

var _ ports.ModelLister = StaticModels(nil)
