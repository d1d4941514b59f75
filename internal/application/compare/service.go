// Package compare submits one record to several models and collects the results.
package compare

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/heartrisk-go/internal/application/present"
	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

// Result is the outcome of one model. Exactly one of View and Err is set.
type Result struct {
	Model   string
	View    *domain.ResultView
	Err     error
	Latency time.Duration
}

// Service fans a record out to every model with bounded concurrency.
type Service struct {
	Predictor ports.Predictor
	Logger    ports.Logger
	Limit     int
}

// Run returns one result per model, sorted by model name. A failing model does not
// stop the others.
func (s *Service) Run(ctx context.Context, patient domain.PatientAttributes, models []string) ([]Result, error) {
	if len(models) == 0 {
		return nil, domain.ErrNoModels
	}

	limit := s.Limit
	if limit <= 0 {
		limit = domain.DefaultCompareConcurrency
	}

	results := make([]Result, len(models))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, model := range models {
		i, model := i, model
		g.Go(func() error {
			started := time.Now()
			outcome, err := s.Predictor.Predict(ctx, domain.PredictionRequest{Model: model, Patient: patient})
			res := Result{Model: model, Latency: time.Since(started)}
			if err != nil {
				res.Err = err
				s.Logger.Warn("model comparison failed", map[string]interface{}{"model": model, "error": err.Error()})
			} else {
				view := present.Present(outcome)
				res.View = &view
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Model < results[b].Model })
	return results, nil
}
