package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/doeshing/heartrisk-go/internal/application/present"
	"github.com/doeshing/heartrisk-go/internal/application/session"
	"github.com/doeshing/heartrisk-go/internal/domain"
)

const maxRequestBytes = 64 << 10

type predictRequest struct {
	Model   string                   `json:"model"`
	Patient domain.PatientAttributes `json:"patient"`
}

type predictResponse struct {
	Outcome domain.PredictionOutcome `json:"outcome"`
	View    domain.ResultView        `json:"view"`
}

type modelsResponse struct {
	Models      []string `json:"models"`
	Recommended string   `json:"recommended"`
}

func (s *Server) handleAPIModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.deps.Models.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(w, http.StatusOK, modelsResponse{Models: models, Recommended: s.deps.Config.Models.Recommended})
}

// handleAPIPredict is stateless: omitted patient fields take the configured defaults.
func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	req := predictRequest{Patient: s.deps.Config.Form.Defaults}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON: "+err.Error()))
		return
	}
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" {
		req.Model = s.deps.Config.Models.Recommended
	}
	if req.Model == "" {
		writeError(w, domain.ErrNoModels)
		return
	}
	if err := req.Patient.Validate(); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := s.deps.Predictor.Predict(r.Context(), domain.PredictionRequest{Model: req.Model, Patient: req.Patient})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Outcome: outcome, View: present.Present(outcome)})
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	writeJSON(w, http.StatusOK, sess.TakeSnapshot())
}

// handleAPISetField accepts {"value": ...} where the value may be a JSON string,
// number or boolean.
func (s *Server) handleAPISetField(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	field, ok := domain.LookupField(chi.URLParam(r, "field"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown field "+chi.URLParam(r, "field")))
		return
	}
	value, ok := readValue(r, "value")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody(`body must be {"value": ...}`))
		return
	}
	if err := sess.SetField(field, value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAPISetModel(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	model, ok := readValue(r, "model")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody(`body must be {"model": "..."}`))
		return
	}
	if err := sess.SetModel(model); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAPIReloadModels(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := sess.LoadModels(r.Context(), s.deps.Models); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	view, err := sess.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func readValue(r *http.Request, key string) (string, bool) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil || !gjson.ValidBytes(raw) {
		return "", false
	}
	v := gjson.GetBytes(raw, key)
	switch v.Type {
	case gjson.String:
		return v.Str, true
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw, true
	default:
		return "", false
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		serverErr    *domain.ServerError
		transportErr *domain.TransportError
		decodeErr    *domain.DecodeError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidFieldValue), errors.Is(err, domain.ErrUnknownField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoModels):
		return http.StatusServiceUnavailable
	case errors.As(err, &serverErr), errors.As(err, &transportErr), errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	msg := domain.MessageFor(err)
	if errors.Is(err, session.ErrSuperseded) {
		msg = err.Error()
	}
	writeJSON(w, statusFor(err), errorBody(msg))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeJSON encodes before writing the status, so an encoding failure still yields a
// complete 500 response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody("could not encode response"))
		status = http.StatusInternalServerError
	}
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
