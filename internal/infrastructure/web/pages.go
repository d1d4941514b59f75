package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/doeshing/heartrisk-go/internal/application/session"
	"github.com/doeshing/heartrisk-go/internal/domain"
)

type pageData struct {
	Title    string
	Active   string
	Snapshot session.Snapshot
	Groups   []fieldGroup
	Body     template.HTML
}

type fieldGroup struct {
	Name   string
	Inputs []fieldInput
}

type fieldInput struct {
	Spec  domain.FieldSpec
	Value string
}

// formGroups lays the record out in form order, grouped by section.
func formGroups(attrs domain.PatientAttributes) []fieldGroup {
	var groups []fieldGroup
	for _, spec := range domain.FieldSpecs() {
		if len(groups) == 0 || groups[len(groups)-1].Name != spec.Group {
			groups = append(groups, fieldGroup{Name: spec.Group})
		}
		g := &groups[len(groups)-1]
		g.Inputs = append(g.Inputs, fieldInput{Spec: spec, Value: attrs.Value(spec.Field)})
	}
	return groups
}

// handleIndex retries the model list for a returning visitor whose session has no
// model, so reloading the page recovers once the backend is reachable again.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, created := s.lookupSession(w, r)
	if !created && !sess.CanSubmit() {
		if err := sess.LoadModels(r.Context(), s.deps.Models); err == nil {
			s.deps.Logger.Info("model list recovered", map[string]interface{}{"session": sess.ID()})
		}
	}
	s.renderIndex(w, sess, http.StatusOK)
}

func (s *Server) renderIndex(w http.ResponseWriter, sess *session.Session, status int) {
	snap := sess.TakeSnapshot()
	s.render(w, status, "index.html", pageData{
		Title:    "Heart disease risk",
		Active:   "predict",
		Snapshot: snap,
		Groups:   formGroups(snap.Attributes),
	})
}

// handlePredict applies every posted field, the model, then submits. Checkboxes post
// a hidden "false" followed by "on" when ticked, so the last value wins.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var invalid bool
	for _, f := range domain.AllFields() {
		values := r.PostForm[string(f)]
		if len(values) == 0 {
			continue
		}
		if err := sess.SetField(f, values[len(values)-1]); err != nil {
			invalid = true
		}
	}
	if model := r.PostForm.Get("model"); model != "" {
		if err := sess.SetModel(model); err != nil {
			invalid = true
		}
	}
	if invalid {
		s.renderIndex(w, sess, http.StatusUnprocessableEntity)
		return
	}

	if _, err := sess.Submit(r.Context()); err != nil && !errors.Is(err, session.ErrSuperseded) {
		s.deps.Logger.Debug("submission did not produce a result", map[string]interface{}{"session": sess.ID(), "error": err.Error()})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	sess.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDoc(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "doc.html", pageData{
			Title:  title,
			Active: name,
			Body:   s.docs[name],
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.deps.Sessions.Len(),
	})
}

// render buffers the page so a template error never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.deps.Logger.Error("render template", err, map[string]interface{}{"template": name})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
