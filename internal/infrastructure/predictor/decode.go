package predictor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

// Field names seen across backend versions, preferred first.
var (
	classKeys       = []string{"predicted_class", "prediction"}
	labelKeys       = []string{"prediction_label", "result_label"}
	probabilityKeys = []string{"probability_score_class_1", "probability_of_risk", "confidence_score"}
)

func decodeOutcome(body []byte) (domain.PredictionOutcome, error) {
	if !gjson.ValidBytes(body) {
		return domain.PredictionOutcome{}, errors.New("response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return domain.PredictionOutcome{}, errors.New("response is not a JSON object")
	}

	class, ok := first(doc, classKeys)
	if !ok || class.Type != gjson.Number {
		return domain.PredictionOutcome{}, fmt.Errorf("missing numeric %s", strings.Join(classKeys, "/"))
	}
	if class.Num != 0 && class.Num != 1 {
		return domain.PredictionOutcome{}, fmt.Errorf("predicted class %v is not 0 or 1", class.Num)
	}

	prob, ok := first(doc, probabilityKeys)
	if !ok || prob.Type != gjson.Number {
		return domain.PredictionOutcome{}, fmt.Errorf("missing numeric %s", strings.Join(probabilityKeys, "/"))
	}
	if math.IsNaN(prob.Num) || prob.Num < 0 || prob.Num > 1 {
		return domain.PredictionOutcome{}, fmt.Errorf("probability %v outside [0,1]", prob.Num)
	}

	label, _ := first(doc, labelKeys)

	return domain.PredictionOutcome{
		PredictedClass: int(class.Num),
		Label:          label.String(),
		Probability:    prob.Num,
		ModelUsed:      doc.Get("model_used").String(),
	}, nil
}

// decodeModels accepts a bare array or an object with a "models" array.
func decodeModels(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if doc.IsObject() {
		doc = doc.Get("models")
	}
	if !doc.IsArray() {
		return nil, errors.New("model list is not an array")
	}

	var models []string
	for _, item := range doc.Array() {
		if name := strings.TrimSpace(item.String()); name != "" {
			models = append(models, name)
		}
	}
	return models, nil
}

// errorMessage pulls {"error": "..."} out of a failure body, if present.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

func first(doc gjson.Result, keys []string) (gjson.Result, bool) {
	for _, key := range keys {
		if v := doc.Get(key); v.Exists() {
			return v, true
		}
	}
	return gjson.Result{}, false
}
