// Package form owns the editable state of the prediction form: the patient record
// and the model selection.
package form

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

// Settings are the construction-time defaults of a Controller.
type Settings struct {
	Defaults    domain.PatientAttributes
	Recommended string
	Models      []string
}

// Controller holds one form's state. It is not safe for concurrent use; the session
// that owns it serialises access.
type Controller struct {
	settings   Settings
	attributes domain.PatientAttributes
	models     []string
	selection  domain.ModelSelection
}

// NewController starts from the configured default record and the recommended model.
func NewController(settings Settings) *Controller {
	c := &Controller{settings: settings}
	c.models = slices.Clone(settings.Models)
	c.Reset()
	return c
}

// Attributes returns a copy of the current record.
func (c *Controller) Attributes() domain.PatientAttributes {
	return c.attributes
}

// Model returns the selected model; empty when none is available.
func (c *Controller) Model() domain.ModelSelection {
	return c.selection
}

// Models returns the selectable model identifiers.
func (c *Controller) Models() []string {
	return slices.Clone(c.models)
}

// Recommended returns the configured recommended model.
func (c *Controller) Recommended() string {
	return c.settings.Recommended
}

// SetField replaces exactly one attribute. The record is unchanged when raw does not
// parse into the field's type.
func (c *Controller) SetField(field domain.Field, raw string) error {
	next, err := c.attributes.WithField(field, raw)
	if err != nil {
		return err
	}
	c.attributes = next
	return nil
}

// SetModel selects name, which must be in the current model list.
func (c *Controller) SetModel(name string) error {
	name = strings.TrimSpace(name)
	if !slices.Contains(c.models, name) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownModel, name)
	}
	c.selection = domain.ModelSelection(name)
	return nil
}

// Reset restores the default record and the recommended model. The model list is kept.
func (c *Controller) Reset() {
	c.attributes = c.settings.Defaults
	c.selection = domain.PickModel(c.models, c.settings.Recommended)
}

// SetModels replaces the model list and re-picks the selection, keeping the current
// one when it is still listed.
func (c *Controller) SetModels(models []string) {
	c.models = slices.Clone(models)
	if !c.selection.IsZero() && slices.Contains(c.models, string(c.selection)) {
		return
	}
	c.selection = domain.PickModel(c.models, c.settings.Recommended)
}

// LoadModels fetches the model list from the backend. Any failure or an empty list
// leaves no model selected and returns an error wrapping domain.ErrNoModels.
func (c *Controller) LoadModels(ctx context.Context, lister ports.ModelLister) error {
	return c.ApplyModels(lister.ListModels(ctx))
}

// ApplyModels installs the result of a model list fetch made elsewhere, with the same
// rules as LoadModels.
func (c *Controller) ApplyModels(models []string, err error) error {
	if err != nil {
		c.SetModels(nil)
		return fmt.Errorf("%w: %w", domain.ErrNoModels, err)
	}
	c.SetModels(models)
	if len(c.models) == 0 {
		return domain.ErrNoModels
	}
	return nil
}

// CanSubmit is false while no model is selected.
func (c *Controller) CanSubmit() bool {
	return !c.selection.IsZero()
}

// Request snapshots the record and selection for one submission.
func (c *Controller) Request() (domain.PredictionRequest, error) {
	if !c.CanSubmit() {
		return domain.PredictionRequest{}, domain.ErrNoModels
	}
	return domain.PredictionRequest{Model: string(c.selection), Patient: c.attributes}, nil
}
