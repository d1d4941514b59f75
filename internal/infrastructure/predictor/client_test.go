package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

func testPatient() domain.PatientAttributes {
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

type capturedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newBackend(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.method = r.Method
			captured.path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &captured.body); err != nil {
					t.Errorf("backend received invalid json: %v", err)
				}
			}
		}
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPredictStringEncoding(t *testing.T) {
	var got capturedRequest
	srv := newBackend(t, http.StatusOK,
		`{"model_used":"Svc","predicted_class":1,"prediction_label":"High Risk","probability_score_class_1":0.82}`, &got)

	client, err := NewClient(Options{BaseURL: srv.URL + "/", Encoding: domain.EncodingString})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	outcome, err := client.Predict(context.Background(), domain.PredictionRequest{Model: "Svc", Patient: testPatient()})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	want := domain.PredictionOutcome{PredictedClass: 1, Label: "High Risk", Probability: 0.82, ModelUsed: "Svc"}
	if diff := cmp.Diff(want, outcome); diff != "" {
		t.Errorf("Predict() mismatch (-want +got):\n%s", diff)
	}

	if got.method != http.MethodPost || got.path != "/predict" {
		t.Errorf("request = %s %s, want POST /predict", got.method, got.path)
	}
	wantBody := map[string]any{
		"model_choice": "Svc",
		"patient_data": map[string]any{
			"age": 50.0, "sex": "Male", "cp": "typical angina", "trestbps": 120.0, "chol": 200.0,
			"fbs": true, "restecg": "lv hypertrophy", "thalach": 150.0, "exang": false,
			"oldpeak": 1.0, "slope": "downsloping", "ca": 0.0, "thal": "fixed defect",
		},
	}
	if diff := cmp.Diff(wantBody, got.body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestPredictIntegerEncoding(t *testing.T) {
	var got capturedRequest
	srv := newBackend(t, http.StatusOK,
		`{"model_used":"Non-PCA_SVC","prediction":0,"result_label":"Low Risk","probability_of_risk":0.25}`, &got)

	client, err := NewClient(Options{BaseURL: srv.URL, Encoding: domain.EncodingInteger})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	outcome, err := client.Predict(context.Background(), domain.PredictionRequest{Model: "Non-PCA_SVC", Patient: testPatient()})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want := domain.PredictionOutcome{PredictedClass: 0, Label: "Low Risk", Probability: 0.25, ModelUsed: "Non-PCA_SVC"}
	if diff := cmp.Diff(want, outcome); diff != "" {
		t.Errorf("Predict() mismatch (-want +got):\n%s", diff)
	}

	wantBody := map[string]any{
		"model_name": "Non-PCA_SVC",
		"data": map[string]any{
			"age": 50.0, "sex": 1.0, "cp": 1.0, "trestbps": 120.0, "chol": 200.0,
			"fbs": 1.0, "restecg": 2.0, "thalach": 150.0, "exang": 0.0,
			"oldpeak": 1.0, "slope": 3.0, "ca": 0.0, "thal": 6.0,
		},
	}
	if diff := cmp.Diff(wantBody, got.body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestPredictErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error with message",
			status: http.StatusInternalServerError,
			body:   `{"error":"model not found"}`,
			check: func(t *testing.T, err error) {
				var serverErr *domain.ServerError
				if !errors.As(err, &serverErr) {
					t.Fatalf("error = %v, want ServerError", err)
				}
				if serverErr.Status != 500 || serverErr.Message != "model not found" {
					t.Errorf("ServerError = %+v", serverErr)
				}
				if msg := domain.MessageFor(err); msg != "model not found" {
					t.Errorf("MessageFor() = %q", msg)
				}
			},
		},
		{
			name:   "server error with html body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			check: func(t *testing.T, err error) {
				var serverErr *domain.ServerError
				if !errors.As(err, &serverErr) || serverErr.Message != "" {
					t.Fatalf("error = %v, want ServerError without message", err)
				}
			},
		},
		{
			name:   "probability out of range",
			status: http.StatusOK,
			body:   `{"predicted_class":1,"prediction_label":"High","probability_score_class_1":1.7}`,
			check:  wantDecodeError,
		},
		{
			name:   "missing probability",
			status: http.StatusOK,
			body:   `{"predicted_class":1,"prediction_label":"High"}`,
			check:  wantDecodeError,
		},
		{
			name:   "class outside 0/1",
			status: http.StatusOK,
			body:   `{"predicted_class":2,"probability_score_class_1":0.5}`,
			check:  wantDecodeError,
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `ok`,
			check:  wantDecodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, tt.status, tt.body, nil)
			client, err := NewClient(Options{BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			_, err = client.Predict(context.Background(), domain.PredictionRequest{Model: "Svc", Patient: testPatient()})
			tt.check(t, err)
		})
	}
}

func wantDecodeError(t *testing.T, err error) {
	t.Helper()
	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}
}

func TestPredictTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(Options{BaseURL: url})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	_, err = client.Predict(context.Background(), domain.PredictionRequest{Model: "Svc", Patient: testPatient()})
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
	if msg := domain.MessageFor(err); msg != domain.GenericFailureMessage {
		t.Errorf("MessageFor() = %q", msg)
	}
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	_, err = client.Predict(context.Background(), domain.PredictionRequest{Model: "Svc", Patient: testPatient()})
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}

func TestListModels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"bare array", `["Logistic Regression","Random Forest","Svc"]`, []string{"Logistic Regression", "Random Forest", "Svc"}},
		{"wrapped", `{"models":["Xgboost"," "]}`, []string{"Xgboost"}},
		{"empty", `[]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got capturedRequest
			srv := newBackend(t, http.StatusOK, tt.body, &got)
			client, err := NewClient(Options{BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			models, err := client.ListModels(context.Background())
			if err != nil {
				t.Fatalf("ListModels() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, models); diff != "" {
				t.Errorf("ListModels() mismatch (-want +got):\n%s", diff)
			}
			if got.method != http.MethodGet || got.path != "/models" {
				t.Errorf("request = %s %s, want GET /models", got.method, got.path)
			}
		})
	}
}

func TestNewClientRejectsBadOptions(t *testing.T) {
	if _, err := NewClient(Options{BaseURL: "localhost"}); err == nil {
		t.Error("expected error for relative url")
	}
	if _, err := NewClient(Options{BaseURL: "http://localhost", Encoding: "xml"}); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
