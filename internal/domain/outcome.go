package domain

// PredictionOutcome is the canonical result of one prediction, independent of the
// field names a backend uses on the wire.
type PredictionOutcome struct {
	PredictedClass int     `json:"predicted_class"`
	Label          string  `json:"label"`
	Probability    float64 `json:"probability"`
	ModelUsed      string  `json:"model_used,omitempty"`
}

// PredictionRequest is one submission: the selected model and the full record.
type PredictionRequest struct {
	Model   string            `json:"model"`
	Patient PatientAttributes `json:"patient"`
}
