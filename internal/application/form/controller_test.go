package form

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

var testModels = []string{"Logistic Regression", "Random Forest", "Svc", "Xgboost"}

func testDefaults() domain.PatientAttributes {
	return domain.PatientAttributes{
		Age:               50,
		Sex:               domain.SexMale,
		ChestPain:         domain.ChestPainTypicalAngina,
		RestingBP:         120,
		Cholesterol:       200,
		FastingBloodSugar: true,
		RestECG:           domain.RestECGLVHypertrophy,
		MaxHeartRate:      150,
		STDepression:      1.0,
		STSlope:           domain.STSlopeDownsloping,
		Thalassemia:       domain.ThalFixedDefect,
	}
}

func newTestController() *Controller {
	return NewController(Settings{Defaults: testDefaults(), Recommended: "Svc", Models: testModels})
}

type stubLister struct {
	models []string
	err    error
}

func (s stubLister) ListModels(context.Context) ([]string, error) {
	return s.models, s.err
}

func TestNewControllerStartsFromDefaults(t *testing.T) {
	c := newTestController()
	if diff := cmp.Diff(testDefaults(), c.Attributes()); diff != "" {
		t.Errorf("Attributes() mismatch (-want +got):\n%s", diff)
	}
	if c.Model() != "Svc" {
		t.Errorf("Model() = %q, want Svc", c.Model())
	}
	if !c.CanSubmit() {
		t.Error("CanSubmit() = false, want true")
	}
}

func TestSetFieldChangesOnlyThatField(t *testing.T) {
	c := newTestController()
	if err := c.SetField(domain.FieldCholesterol, "289"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	want := testDefaults()
	want.Cholesterol = 289
	if diff := cmp.Diff(want, c.Attributes()); diff != "" {
		t.Errorf("Attributes() mismatch (-want +got):\n%s", diff)
	}

	if err := c.SetField(domain.FieldAge, "old"); !errors.Is(err, domain.ErrInvalidFieldValue) {
		t.Fatalf("SetField() error = %v, want ErrInvalidFieldValue", err)
	}
	if diff := cmp.Diff(want, c.Attributes()); diff != "" {
		t.Errorf("rejected edit changed the record (-want +got):\n%s", diff)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := newTestController()
	edits := map[domain.Field]string{
		domain.FieldAge:            "71",
		domain.FieldSex:            "Female",
		domain.FieldSTDepression:   "3.4",
		domain.FieldThalassemia:    "normal",
		domain.FieldExerciseAngina: "true",
	}
	for f, v := range edits {
		if err := c.SetField(f, v); err != nil {
			t.Fatalf("SetField(%s) error = %v", f, err)
		}
	}
	if err := c.SetModel("Random Forest"); err != nil {
		t.Fatalf("SetModel() error = %v", err)
	}

	c.Reset()

	if diff := cmp.Diff(testDefaults(), c.Attributes()); diff != "" {
		t.Errorf("Attributes() after Reset mismatch (-want +got):\n%s", diff)
	}
	if c.Model() != "Svc" {
		t.Errorf("Model() after Reset = %q, want Svc", c.Model())
	}
}

func TestSetModelRejectsUnknown(t *testing.T) {
	c := newTestController()
	if err := c.SetModel("Naive Bayes"); !errors.Is(err, domain.ErrUnknownModel) {
		t.Fatalf("SetModel() error = %v, want ErrUnknownModel", err)
	}
	if c.Model() != "Svc" {
		t.Errorf("Model() = %q, want Svc", c.Model())
	}
}

func TestLoadModels(t *testing.T) {
	tests := []struct {
		name      string
		lister    stubLister
		wantErr   bool
		wantModel domain.ModelSelection
	}{
		{
			name:      "recommended listed",
			lister:    stubLister{models: []string{"Random Forest", "Svc"}},
			wantModel: "Svc",
		},
		{
			name:      "recommended missing falls back to first",
			lister:    stubLister{models: []string{"Random Forest", "Xgboost"}},
			wantModel: "Random Forest",
		},
		{
			name:    "empty list",
			lister:  stubLister{},
			wantErr: true,
		},
		{
			name:    "backend error",
			lister:  stubLister{err: &domain.TransportError{Op: "get /models", Err: errors.New("refused")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(Settings{Defaults: testDefaults(), Recommended: "Svc"})
			err := c.LoadModels(context.Background(), tt.lister)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNoModels) {
					t.Fatalf("LoadModels() error = %v, want ErrNoModels", err)
				}
				if c.CanSubmit() {
					t.Error("CanSubmit() = true after failed load")
				}
				if _, err := c.Request(); !errors.Is(err, domain.ErrNoModels) {
					t.Errorf("Request() error = %v, want ErrNoModels", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadModels() error = %v", err)
			}
			if c.Model() != tt.wantModel {
				t.Errorf("Model() = %q, want %q", c.Model(), tt.wantModel)
			}
		})
	}
}
