package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names one attribute of PatientAttributes by its wire key.
type Field string

const (
	FieldAge               Field = "age"
	FieldSex               Field = "sex"
	FieldChestPain         Field = "cp"
	FieldRestingBP         Field = "trestbps"
	FieldCholesterol       Field = "chol"
	FieldFastingBloodSugar Field = "fbs"
	FieldRestECG           Field = "restecg"
	FieldMaxHeartRate      Field = "thalach"
	FieldExerciseAngina    Field = "exang"
	FieldSTDepression      Field = "oldpeak"
	FieldSTSlope           Field = "slope"
	FieldMajorVessels      Field = "ca"
	FieldThalassemia       Field = "thal"
)

// FieldKind tells renderers which input control a field needs.
type FieldKind string

const (
	FieldKindInt    FieldKind = "int"
	FieldKindFloat  FieldKind = "float"
	FieldKindBool   FieldKind = "bool"
	FieldKindChoice FieldKind = "choice"
)

// FieldOption is one choice of a categorical field.
type FieldOption struct {
	Value string
	Label string
	Code  int
}

// FieldSpec carries display and range metadata. Min/Max/Step are advisory: they are
// rendered as input constraints but never enforced on SetField.
type FieldSpec struct {
	Field   Field
	Label   string
	Unit    string
	Group   string
	Kind    FieldKind
	Min     float64
	Max     float64
	Step    float64
	Options []FieldOption
}

// HasRange reports whether the spec declares numeric bounds.
func (s FieldSpec) HasRange() bool {
	return s.Kind == FieldKindInt || s.Kind == FieldKindFloat
}

// Field groups mirror the sections of the input form.
const (
	GroupDemographics = "Demographics"
	GroupSymptoms     = "Symptoms & conditions"
	GroupVitals       = "Vital signs"
	GroupAdvanced     = "Advanced examination"
)

var fieldSpecs = []FieldSpec{
	{Field: FieldAge, Label: "Age", Unit: "years", Group: GroupDemographics, Kind: FieldKindInt, Min: 1, Max: 120, Step: 1},
	{Field: FieldSex, Label: "Sex", Group: GroupDemographics, Kind: FieldKindChoice, Options: sexLegend.options()},
	{Field: FieldChestPain, Label: "Chest pain type", Group: GroupSymptoms, Kind: FieldKindChoice, Options: chestPainLegend.options()},
	{Field: FieldFastingBloodSugar, Label: "Fasting blood sugar > 120 mg/dl", Group: GroupSymptoms, Kind: FieldKindBool},
	{Field: FieldExerciseAngina, Label: "Exercise induced angina", Group: GroupSymptoms, Kind: FieldKindBool},
	{Field: FieldRestingBP, Label: "Resting blood pressure", Unit: "mm Hg", Group: GroupVitals, Kind: FieldKindInt, Min: 50, Max: 250, Step: 1},
	{Field: FieldCholesterol, Label: "Serum cholesterol", Unit: "mg/dl", Group: GroupVitals, Kind: FieldKindInt, Min: 50, Max: 600, Step: 1},
	{Field: FieldMaxHeartRate, Label: "Maximum heart rate", Unit: "bpm", Group: GroupVitals, Kind: FieldKindInt, Min: 50, Max: 220, Step: 1},
	{Field: FieldRestECG, Label: "Resting ECG", Group: GroupAdvanced, Kind: FieldKindChoice, Options: restECGLegend.options()},
	{Field: FieldSTSlope, Label: "ST segment slope", Group: GroupAdvanced, Kind: FieldKindChoice, Options: stSlopeLegend.options()},
	{Field: FieldSTDepression, Label: "ST depression (oldpeak)", Group: GroupAdvanced, Kind: FieldKindFloat, Min: 0, Max: 7, Step: 0.1},
	{Field: FieldMajorVessels, Label: "Major vessels (0-3)", Group: GroupAdvanced, Kind: FieldKindInt, Min: 0, Max: 3, Step: 1},
	{Field: FieldThalassemia, Label: "Thalassemia", Group: GroupAdvanced, Kind: FieldKindChoice, Options: thalLegend.options()},
}

// FieldSpecs returns the specs in form order.
func FieldSpecs() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs)
	return out
}

// AllFields lists every field in form order.
func AllFields() []Field {
	out := make([]Field, 0, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		out = append(out, spec.Field)
	}
	return out
}

// LookupField resolves a wire key ("trestbps") to a Field.
func LookupField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, spec := range fieldSpecs {
		if string(spec.Field) == name {
			return spec.Field, true
		}
	}
	return "", false
}

// Spec returns the metadata of f.
func (f Field) Spec() (FieldSpec, bool) {
	for _, spec := range fieldSpecs {
		if spec.Field == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// WithField returns a copy of p where only f is replaced by the parsed raw value.
// Values that do not parse into the field's type are rejected; numeric ranges are not
// checked and out-of-range values pass through unchanged.
func (p PatientAttributes) WithField(f Field, raw string) (PatientAttributes, error) {
	raw = strings.TrimSpace(raw)
	next := p
	var err error
	switch f {
	case FieldAge:
		next.Age, err = parseInt(f, raw)
	case FieldSex:
		next.Sex, err = ParseSex(raw)
	case FieldChestPain:
		next.ChestPain, err = ParseChestPainType(raw)
	case FieldRestingBP:
		next.RestingBP, err = parseInt(f, raw)
	case FieldCholesterol:
		next.Cholesterol, err = parseInt(f, raw)
	case FieldFastingBloodSugar:
		next.FastingBloodSugar, err = parseBool(f, raw)
	case FieldRestECG:
		next.RestECG, err = ParseRestECG(raw)
	case FieldMaxHeartRate:
		next.MaxHeartRate, err = parseInt(f, raw)
	case FieldExerciseAngina:
		next.ExerciseAngina, err = parseBool(f, raw)
	case FieldSTDepression:
		next.STDepression, err = parseFloat(f, raw)
	case FieldSTSlope:
		next.STSlope, err = ParseSTSlope(raw)
	case FieldMajorVessels:
		next.MajorVessels, err = parseInt(f, raw)
	case FieldThalassemia:
		next.Thalassemia, err = ParseThalassemia(raw)
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	if err != nil {
		return p, err
	}
	return next, nil
}

// Value renders the current value of f in the same textual form WithField accepts.
func (p PatientAttributes) Value(f Field) string {
	switch f {
	case FieldAge:
		return strconv.Itoa(p.Age)
	case FieldSex:
		return p.Sex.String()
	case FieldChestPain:
		return p.ChestPain.String()
	case FieldRestingBP:
		return strconv.Itoa(p.RestingBP)
	case FieldCholesterol:
		return strconv.Itoa(p.Cholesterol)
	case FieldFastingBloodSugar:
		return strconv.FormatBool(p.FastingBloodSugar)
	case FieldRestECG:
		return p.RestECG.String()
	case FieldMaxHeartRate:
		return strconv.Itoa(p.MaxHeartRate)
	case FieldExerciseAngina:
		return strconv.FormatBool(p.ExerciseAngina)
	case FieldSTDepression:
		return strconv.FormatFloat(p.STDepression, 'f', -1, 64)
	case FieldSTSlope:
		return p.STSlope.String()
	case FieldMajorVessels:
		return strconv.Itoa(p.MajorVessels)
	case FieldThalassemia:
		return p.Thalassemia.String()
	default:
		return ""
	}
}

// Validate checks that every categorical field holds a known value.
func (p PatientAttributes) Validate() error {
	switch {
	case !p.Sex.Valid():
		return fmt.Errorf("%w: sex=%d", ErrInvalidFieldValue, int(p.Sex))
	case !p.ChestPain.Valid():
		return fmt.Errorf("%w: cp=%d", ErrInvalidFieldValue, int(p.ChestPain))
	case !p.RestECG.Valid():
		return fmt.Errorf("%w: restecg=%d", ErrInvalidFieldValue, int(p.RestECG))
	case !p.STSlope.Valid():
		return fmt.Errorf("%w: slope=%d", ErrInvalidFieldValue, int(p.STSlope))
	case !p.Thalassemia.Valid():
		return fmt.Errorf("%w: thal=%d", ErrInvalidFieldValue, int(p.Thalassemia))
	}
	return nil
}

func parseInt(f Field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidFieldValue, f, raw)
	}
	return v, nil
}

func parseFloat(f Field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidFieldValue, f, raw)
	}
	return v, nil
}

// parseBool also accepts the "on"/"off" values posted by HTML checkboxes.
func parseBool(f Field, raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidFieldValue, f, raw)
	}
	return v, nil
}
