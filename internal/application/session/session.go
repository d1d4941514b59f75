// Package session holds the page-level state of one user: the form, the last result,
// the transient notice and the sequencing of in-flight submissions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/doeshing/heartrisk-go/internal/application/form"
	"github.com/doeshing/heartrisk-go/internal/application/present"
	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

// ErrSuperseded is returned to a submission whose response arrived after a later
// submission or a reset was started. Its response is discarded.
var ErrSuperseded = errors.New("submission superseded by a newer request")

// Session is safe for concurrent use. The mutex guards state only and is never held
// while waiting on the backend.
type Session struct {
	id        string
	predictor ports.Predictor
	logger    ports.Logger

	mu         sync.Mutex
	controller *form.Controller
	issued     uint64
	pending    int
	result     *domain.ResultView
	notice     *domain.Notice
}

// Snapshot is an immutable copy of the session for rendering.
type Snapshot struct {
	ID          string                   `json:"id"`
	Attributes  domain.PatientAttributes `json:"attributes"`
	Model       string                   `json:"model"`
	Models      []string                 `json:"models"`
	Recommended string                   `json:"recommended"`
	CanSubmit   bool                     `json:"can_submit"`
	Pending     bool                     `json:"pending"`
	Result      *domain.ResultView       `json:"result,omitempty"`
	Notice      *domain.Notice           `json:"notice,omitempty"`
}

// New wraps controller. id only labels log lines.
func New(id string, controller *form.Controller, predictor ports.Predictor, logger ports.Logger) *Session {
	return &Session{id: id, controller: controller, predictor: predictor, logger: logger}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SetField edits one attribute.
func (s *Session) SetField(field domain.Field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.controller.SetField(field, raw); err != nil {
		s.setNotice(domain.NoticeFor(err))
		return err
	}
	return nil
}

// SetModel changes the selected model.
func (s *Session) SetModel(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.controller.SetModel(name); err != nil {
		s.setNotice(domain.NoticeFor(err))
		return err
	}
	return nil
}

// LoadModels fetches the model list. Failure leaves no model selected and sets the
// distinct no-models notice.
func (s *Session) LoadModels(ctx context.Context, lister ports.ModelLister) error {
	models, fetchErr := lister.ListModels(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.controller.ApplyModels(models, fetchErr); err != nil {
		s.logger.Warn("model list unavailable", map[string]interface{}{"session": s.id, "error": err.Error()})
		s.setNotice(domain.NoticeFor(err))
		return err
	}
	s.logger.Debug("model list loaded", map[string]interface{}{"session": s.id, "count": len(models)})
	return nil
}

// Submit sends the current record to the selected model. On success the result slot
// is replaced; on failure it is left untouched and an error notice is set. A response
// that returns after a newer submission or a reset is discarded with ErrSuperseded.
func (s *Session) Submit(ctx context.Context) (domain.ResultView, error) {
	s.mu.Lock()
	req, err := s.controller.Request()
	if err != nil {
		s.setNotice(domain.NoticeFor(err))
		s.mu.Unlock()
		return domain.ResultView{}, err
	}
	s.issued++
	ticket := s.issued
	s.pending++
	s.mu.Unlock()

	started := time.Now()
	outcome, err := s.predictor.Predict(ctx, req)
	fields := map[string]interface{}{
		"session": s.id,
		"ticket":  ticket,
		"model":   req.Model,
		"latency": time.Since(started).String(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if ticket != s.issued {
		s.logger.Debug("discarding stale prediction response", fields)
		return domain.ResultView{}, ErrSuperseded
	}
	if err != nil {
		s.logger.Error("prediction failed", err, fields)
		s.setNotice(domain.NoticeFor(err))
		return domain.ResultView{}, err
	}

	view := present.Present(outcome)
	s.result = &view
	fields["class"] = outcome.PredictedClass
	fields["risk"] = view.RiskPercentage
	s.logger.Info("prediction complete", fields)
	s.setNotice(domain.Notice{
		Kind:    domain.NoticeSuccess,
		Title:   domain.PredictionDoneTitle,
		Message: "Risk probability " + view.RiskPercentage + "% (" + view.Outcome.Label + ").",
	})
	return view, nil
}

// Reset restores the defaults, clears the result slot and invalidates any
// submission still in flight.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.Reset()
	s.result = nil
	s.issued++
	s.setNotice(domain.Notice{Kind: domain.NoticeInfo, Title: domain.ResetTitle, Message: domain.ResetMessage})
}

// Pending reports whether a submission is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TakeSnapshot copies the current state and clears the notice in the same critical
// section, so a notice is handed to exactly one renderer.
func (s *Session) TakeSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	s.notice = nil
	return snap
}

// CanSubmit reports whether a model is selected.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.CanSubmit()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		Attributes:  s.controller.Attributes(),
		Model:       string(s.controller.Model()),
		Models:      s.controller.Models(),
		Recommended: s.controller.Recommended(),
		CanSubmit:   s.controller.CanSubmit(),
		Pending:     s.pending > 0,
	}
	if s.result != nil {
		view := *s.result
		snap.Result = &view
	}
	if s.notice != nil {
		notice := *s.notice
		snap.Notice = &notice
	}
	return snap
}

func (s *Session) setNotice(n domain.Notice) {
	s.notice = &n
}
