package domain

import "slices"

// ModelSelection names the backend model a submission is sent to. The empty value
// means no model is available and submission is blocked.
type ModelSelection string

// IsZero reports whether no model is selected.
func (m ModelSelection) IsZero() bool { return m == "" }

func (m ModelSelection) String() string { return string(m) }

// PickModel returns recommended when it is listed, else the first listed model,
// else the empty selection.
func PickModel(models []string, recommended string) ModelSelection {
	if recommended != "" && slices.Contains(models, recommended) {
		return ModelSelection(recommended)
	}
	if len(models) > 0 {
		return ModelSelection(models[0])
	}
	return ""
}
