package predictor

import (
	"encoding/json"
	"fmt"

	"github.com/doeshing/heartrisk-go/internal/domain"
)

// codec builds the request body for one backend contract. Responses are decoded
// leniently by decodeOutcome, so only requests differ between codecs.
type codec struct {
	encodeRequest func(domain.PredictionRequest) ([]byte, error)
}

func codecFor(enc domain.Encoding) (codec, error) {
	switch enc {
	case domain.EncodingString:
		return stringCodec(), nil
	case domain.EncodingInteger:
		return integerCodec(), nil
	default:
		return codec{}, fmt.Errorf("unsupported backend encoding %q", enc)
	}
}

func stringCodec() codec {
	return codec{encodeRequest: encodeStringRequest}
}

func integerCodec() codec {
	return codec{encodeRequest: encodeIntegerRequest}
}

// encodeStringRequest emits {"model_choice", "patient_data"} with categorical
// fields as legend tokens and booleans as JSON booleans.
func encodeStringRequest(req domain.PredictionRequest) ([]byte, error) {
	if err := req.Patient.Validate(); err != nil {
		return nil, err
	}
	p := req.Patient
	request := map[string]interface{}{
		"model_choice": req.Model,
		"patient_data": map[string]interface{}{
			"age":      p.Age,
			"sex":      p.Sex.String(),
			"cp":       p.ChestPain.String(),
			"trestbps": p.RestingBP,
			"chol":     p.Cholesterol,
			"fbs":      p.FastingBloodSugar,
			"restecg":  p.RestECG.String(),
			"thalach":  p.MaxHeartRate,
			"exang":    p.ExerciseAngina,
			"oldpeak":  p.STDepression,
			"slope":    p.STSlope.String(),
			"ca":       p.MajorVessels,
			"thal":     p.Thalassemia.String(),
		},
	}
	return json.Marshal(request)
}

// encodeIntegerRequest emits {"model_name", "data"} with every categorical and
// boolean field as its integer code.
func encodeIntegerRequest(req domain.PredictionRequest) ([]byte, error) {
	if err := req.Patient.Validate(); err != nil {
		return nil, err
	}
	p := req.Patient
	request := map[string]interface{}{
		"model_name": req.Model,
		"data": map[string]interface{}{
			"age":      p.Age,
			"sex":      p.Sex.Code(),
			"cp":       p.ChestPain.Code(),
			"trestbps": p.RestingBP,
			"chol":     p.Cholesterol,
			"fbs":      boolCode(p.FastingBloodSugar),
			"restecg":  p.RestECG.Code(),
			"thalach":  p.MaxHeartRate,
			"exang":    boolCode(p.ExerciseAngina),
			"oldpeak":  p.STDepression,
			"slope":    p.STSlope.Code(),
			"ca":       p.MajorVessels,
			"thal":     p.Thalassemia.Code(),
		},
	}
	return json.Marshal(request)
}

func boolCode(b bool) int {
	if b {
		return 1
	}
	return 0
}
