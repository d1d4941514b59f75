package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/doeshing/heartrisk-go/internal/domain"
	configinfra "github.com/doeshing/heartrisk-go/internal/infrastructure/config"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/models":
			io.WriteString(w, `["Logistic Regression","Random Forest"]`)
		case "/predict":
			body, _ := io.ReadAll(r.Body)
			model := gjson.GetBytes(body, "model_choice").String()
			if model == "Random Forest" {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, `{"error":"model not found"}`)
				return
			}
			age := gjson.GetBytes(body, "patient_data.age").Int()
			probability := 0.82
			if age < 40 {
				probability = 0.2
			}
			class, label := 1, "High Risk"
			if probability < 0.5 {
				class, label = 0, "Low Risk"
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"predicted_class":           class,
				"prediction_label":          label,
				"probability_score_class_1": probability,
				"model_used":                model,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	for _, key := range []string{
		configinfra.EnvConfigPath,
		configinfra.EnvBackendURL,
		configinfra.EnvEncoding,
		configinfra.EnvAddr,
		configinfra.EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend:\n  base_url: " + baseURL + "\nmodels:\n  fetch: true\n  recommended: Logistic Regression\nlog:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(Options{})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPredictCommandJSON(t *testing.T) {
	backend := newBackend(t)
	cfgPath := writeConfig(t, backend.URL)

	out, err := execute(t, "--config", cfgPath, "predict", "--json")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}

	var view domain.ResultView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !view.IsHighRisk || view.RiskPercentage != "82.0" || view.Tier != domain.RiskHigh {
		t.Errorf("unexpected view: %+v", view)
	}
	if view.Outcome.ModelUsed != "Logistic Regression" {
		t.Errorf("model used = %q, want recommended model", view.Outcome.ModelUsed)
	}
}

func TestPredictCommandAppliesOverrides(t *testing.T) {
	backend := newBackend(t)
	cfgPath := writeConfig(t, backend.URL)

	out, err := execute(t, "--config", cfgPath, "predict", "--set", "age=30", "--set", "cp=asymptomatic")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	for _, want := range []string{"LOW RISK - Low Risk (class 0)", "Risk probability: 20.0%", "Risk level:       Low"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPredictCommandErrors(t *testing.T) {
	backend := newBackend(t)
	cfgPath := writeConfig(t, backend.URL)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown field", args: []string{"--set", "bmi=22"}, want: domain.ErrUnknownField},
		{name: "bad value", args: []string{"--set", "sex=other"}, want: domain.ErrInvalidFieldValue},
		{name: "unknown model", args: []string{"--model", "Xgboost"}, want: domain.ErrUnknownModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath, "predict"}, tt.args...)
			_, err := execute(t, args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := execute(t, "--config", cfgPath, "predict", "--model", "Random Forest")
	var serverErr *domain.ServerError
	if !errors.As(err, &serverErr) || serverErr.Message != "model not found" {
		t.Fatalf("error = %v, want server error carrying the backend message", err)
	}
}

func TestModelsCommandMarksRecommended(t *testing.T) {
	backend := newBackend(t)
	cfgPath := writeConfig(t, backend.URL)

	out, err := execute(t, "--config", cfgPath, "models")
	if err != nil {
		t.Fatalf("models error = %v", err)
	}
	if !strings.Contains(out, " * Logistic Regression") || !strings.Contains(out, "   Random Forest") {
		t.Errorf("unexpected models output:\n%s", out)
	}
}

func TestCompareCommandKeepsFailingModels(t *testing.T) {
	backend := newBackend(t)
	cfgPath := writeConfig(t, backend.URL)

	out, err := execute(t, "--config", cfgPath, "compare")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "Logistic Regression") || !strings.Contains(lines[1], "82.0%") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Random Forest") || !strings.Contains(lines[2], "model not found") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestFieldsCommandListsEveryField(t *testing.T) {
	backend := newBackend(t)
	cfgPath := writeConfig(t, backend.URL)

	out, err := execute(t, "--config", cfgPath, "fields")
	if err != nil {
		t.Fatalf("fields error = %v", err)
	}
	for _, f := range domain.AllFields() {
		if !strings.Contains(out, "\n"+string(f)+" ") {
			t.Errorf("field %s missing from output", f)
		}
	}
	if !strings.Contains(out, "reversable defect=7") {
		t.Errorf("thal legend missing:\n%s", out)
	}
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []assignment
		wantErr bool
	}{
		{name: "empty", input: nil, want: []assignment{}},
		{
			name:  "keeps order and value text",
			input: []string{"age=61", "THAL=reversable defect", "oldpeak=2.5"},
			want: []assignment{
				{field: domain.FieldAge, value: "61"},
				{field: domain.FieldThalassemia, value: "reversable defect"},
				{field: domain.FieldSTDepression, value: "2.5"},
			},
		},
		{name: "missing equals", input: []string{"age"}, wantErr: true},
		{name: "unknown key", input: []string{"weight=80"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAssignments() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d assignments, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("assignment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		tenths int
		filled int
	}{
		{0, 0},
		{500, 20},
		{820, 32},
		{1000, 40},
		{1200, 40},
	}
	for _, tt := range tests {
		got := bar(tt.tenths)
		if len(got) != barWidth {
			t.Fatalf("bar(%d) width = %d", tt.tenths, len(got))
		}
		if n := strings.Count(got, "#"); n != tt.filled {
			t.Errorf("bar(%d) filled = %d, want %d", tt.tenths, n, tt.filled)
		}
	}
}
