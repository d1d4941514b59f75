// Package domain defines core business entities and value objects for heartrisk.
//
// This file contains the patient attribute record and its categorical enums. Each
// enum carries both wire encodings seen in prediction backends: a canonical string
// token and a small integer code. The domain layer never decides which one goes on
// the wire; codecs in the infrastructure layer do.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PatientAttributes is the fixed-shape record of thirteen clinical attributes.
type PatientAttributes struct {
	Age               int           `yaml:"age" json:"age"`
	Sex               Sex           `yaml:"sex" json:"sex"`
	ChestPain         ChestPainType `yaml:"cp" json:"cp"`
	RestingBP         int           `yaml:"trestbps" json:"trestbps"`
	Cholesterol       int           `yaml:"chol" json:"chol"`
	FastingBloodSugar bool          `yaml:"fbs" json:"fbs"`
	RestECG           RestECG       `yaml:"restecg" json:"restecg"`
	MaxHeartRate      int           `yaml:"thalach" json:"thalach"`
	ExerciseAngina    bool          `yaml:"exang" json:"exang"`
	STDepression      float64       `yaml:"oldpeak" json:"oldpeak"`
	STSlope           STSlope       `yaml:"slope" json:"slope"`
	MajorVessels      int           `yaml:"ca" json:"ca"`
	Thalassemia       Thalassemia   `yaml:"thal" json:"thal"`
}

// Sex of the patient.
type Sex int

const (
	SexFemale Sex = 0
	SexMale   Sex = 1
)

// ChestPainType classifies the chest-pain symptom.
type ChestPainType int

const (
	ChestPainTypicalAngina  ChestPainType = 1
	ChestPainAtypicalAngina ChestPainType = 2
	ChestPainNonAnginal     ChestPainType = 3
	ChestPainAsymptomatic   ChestPainType = 4
)

// RestECG is the resting electrocardiogram result.
type RestECG int

const (
	RestECGNormal         RestECG = 0
	RestECGSTTAbnormality RestECG = 1
	RestECGLVHypertrophy  RestECG = 2
)

// STSlope is the slope of the peak exercise ST segment.
type STSlope int

const (
	STSlopeUpsloping   STSlope = 1
	STSlopeFlat        STSlope = 2
	STSlopeDownsloping STSlope = 3
)

// Thalassemia is the thallium stress test result. Codes follow the dataset legend.
type Thalassemia int

const (
	ThalNormal           Thalassemia = 3
	ThalFixedDefect      Thalassemia = 6
	ThalReversibleDefect Thalassemia = 7
)

type legendEntry[T ~int] struct {
	value   T
	token   string
	label   string
	aliases []string
}

type legend[T ~int] []legendEntry[T]

func (l legend[T]) lookup(v T) (legendEntry[T], bool) {
	for _, e := range l {
		if e.value == v {
			return e, true
		}
	}
	return legendEntry[T]{}, false
}

func (l legend[T]) token(v T) string {
	if e, ok := l.lookup(v); ok {
		return e.token
	}
	return strconv.Itoa(int(v))
}

func (l legend[T]) label(v T) string {
	if e, ok := l.lookup(v); ok {
		return e.label
	}
	return fmt.Sprintf("unknown (%d)", int(v))
}

// parse accepts the string token (case-insensitive), an alias, or the integer code.
func (l legend[T]) parse(raw string) (T, bool) {
	raw = strings.TrimSpace(raw)
	for _, e := range l {
		if strings.EqualFold(raw, e.token) {
			return e.value, true
		}
		for _, alias := range e.aliases {
			if strings.EqualFold(raw, alias) {
				return e.value, true
			}
		}
	}
	if code, err := strconv.Atoi(raw); err == nil {
		if _, ok := l.lookup(T(code)); ok {
			return T(code), true
		}
	}
	var zero T
	return zero, false
}

func (l legend[T]) options() []FieldOption {
	out := make([]FieldOption, 0, len(l))
	for _, e := range l {
		out = append(out, FieldOption{Value: e.token, Label: e.label, Code: int(e.value)})
	}
	return out
}

var sexLegend = legend[Sex]{
	{value: SexMale, token: "Male", label: "Male", aliases: []string{"m"}},
	{value: SexFemale, token: "Female", label: "Female", aliases: []string{"f"}},
}

var chestPainLegend = legend[ChestPainType]{
	{value: ChestPainTypicalAngina, token: "typical angina", label: "Typical angina"},
	{value: ChestPainAtypicalAngina, token: "atypical angina", label: "Atypical angina"},
	{value: ChestPainNonAnginal, token: "non-anginal", label: "Non-anginal pain"},
	{value: ChestPainAsymptomatic, token: "asymptomatic", label: "Asymptomatic"},
}

var restECGLegend = legend[RestECG]{
	{value: RestECGNormal, token: "normal", label: "Normal"},
	{value: RestECGSTTAbnormality, token: "st-t abnormality", label: "ST-T wave abnormality"},
	{value: RestECGLVHypertrophy, token: "lv hypertrophy", label: "Left ventricular hypertrophy"},
}

var stSlopeLegend = legend[STSlope]{
	{value: STSlopeUpsloping, token: "upsloping", label: "Upsloping"},
	{value: STSlopeFlat, token: "flat", label: "Flat"},
	{value: STSlopeDownsloping, token: "downsloping", label: "Downsloping"},
}

// "reversable defect" is the spelling used by the training dataset.
var thalLegend = legend[Thalassemia]{
	{value: ThalNormal, token: "normal", label: "Normal"},
	{value: ThalFixedDefect, token: "fixed defect", label: "Fixed defect"},
	{value: ThalReversibleDefect, token: "reversable defect", label: "Reversible defect", aliases: []string{"reversible defect"}},
}

func (s Sex) String() string { return sexLegend.token(s) }

// Label returns the human readable form.
func (s Sex) Label() string { return sexLegend.label(s) }

// Code returns the integer wire code.
func (s Sex) Code() int { return int(s) }

// Valid reports whether s is a known value.
func (s Sex) Valid() bool {
	_, ok := sexLegend.lookup(s)
	return ok
}

func (s Sex) MarshalText() ([]byte, error) { return marshalEnum(sexLegend, s, "sex") }

func (s *Sex) UnmarshalText(b []byte) error { return unmarshalEnum(sexLegend, b, s, "sex") }

// UnmarshalJSON accepts the token as a JSON string or the integer code as a number.
func (s *Sex) UnmarshalJSON(b []byte) error {
	return unmarshalEnumJSON(sexLegend, b, s, "sex")
}

// ParseSex parses a token ("Male") or code ("1").
func ParseSex(raw string) (Sex, error) { return parseEnum(sexLegend, raw, "sex") }

func (c ChestPainType) String() string { return chestPainLegend.token(c) }
func (c ChestPainType) Label() string  { return chestPainLegend.label(c) }
func (c ChestPainType) Code() int      { return int(c) }

func (c ChestPainType) Valid() bool {
	_, ok := chestPainLegend.lookup(c)
	return ok
}

func (c ChestPainType) MarshalText() ([]byte, error) { return marshalEnum(chestPainLegend, c, "cp") }

func (c *ChestPainType) UnmarshalText(b []byte) error {
	return unmarshalEnum(chestPainLegend, b, c, "cp")
}

func (c *ChestPainType) UnmarshalJSON(b []byte) error {
	return unmarshalEnumJSON(chestPainLegend, b, c, "cp")
}

// ParseChestPainType parses a token ("typical angina") or code ("1").
func ParseChestPainType(raw string) (ChestPainType, error) {
	return parseEnum(chestPainLegend, raw, "cp")
}

func (r RestECG) String() string { return restECGLegend.token(r) }
func (r RestECG) Label() string  { return restECGLegend.label(r) }
func (r RestECG) Code() int      { return int(r) }

func (r RestECG) Valid() bool {
	_, ok := restECGLegend.lookup(r)
	return ok
}

func (r RestECG) MarshalText() ([]byte, error) { return marshalEnum(restECGLegend, r, "restecg") }

func (r *RestECG) UnmarshalText(b []byte) error {
	return unmarshalEnum(restECGLegend, b, r, "restecg")
}

func (r *RestECG) UnmarshalJSON(b []byte) error {
	return unmarshalEnumJSON(restECGLegend, b, r, "restecg")
}

// ParseRestECG parses a token ("normal") or code ("0").
func ParseRestECG(raw string) (RestECG, error) { return parseEnum(restECGLegend, raw, "restecg") }

func (s STSlope) String() string { return stSlopeLegend.token(s) }
func (s STSlope) Label() string  { return stSlopeLegend.label(s) }
func (s STSlope) Code() int      { return int(s) }

func (s STSlope) Valid() bool {
	_, ok := stSlopeLegend.lookup(s)
	return ok
}

func (s STSlope) MarshalText() ([]byte, error) { return marshalEnum(stSlopeLegend, s, "slope") }

func (s *STSlope) UnmarshalText(b []byte) error {
	return unmarshalEnum(stSlopeLegend, b, s, "slope")
}

func (s *STSlope) UnmarshalJSON(b []byte) error {
	return unmarshalEnumJSON(stSlopeLegend, b, s, "slope")
}

// ParseSTSlope parses a token ("flat") or code ("2").
func ParseSTSlope(raw string) (STSlope, error) { return parseEnum(stSlopeLegend, raw, "slope") }

func (t Thalassemia) String() string { return thalLegend.token(t) }
func (t Thalassemia) Label() string  { return thalLegend.label(t) }
func (t Thalassemia) Code() int      { return int(t) }

func (t Thalassemia) Valid() bool {
	_, ok := thalLegend.lookup(t)
	return ok
}

func (t Thalassemia) MarshalText() ([]byte, error) { return marshalEnum(thalLegend, t, "thal") }

func (t *Thalassemia) UnmarshalText(b []byte) error {
	return unmarshalEnum(thalLegend, b, t, "thal")
}

func (t *Thalassemia) UnmarshalJSON(b []byte) error {
	return unmarshalEnumJSON(thalLegend, b, t, "thal")
}

// ParseThalassemia parses a token ("fixed defect") or code ("6").
func ParseThalassemia(raw string) (Thalassemia, error) { return parseEnum(thalLegend, raw, "thal") }

func parseEnum[T ~int](l legend[T], raw, field string) (T, error) {
	v, ok := l.parse(raw)
	if !ok {
		return v, fmt.Errorf("%w: %s=%q", ErrInvalidFieldValue, field, raw)
	}
	return v, nil
}

func marshalEnum[T ~int](l legend[T], v T, field string) ([]byte, error) {
	e, ok := l.lookup(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%d", ErrInvalidFieldValue, field, int(v))
	}
	return []byte(e.token), nil
}

func unmarshalEnumJSON[T ~int](l legend[T], b []byte, dst *T, field string) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	return unmarshalEnum(l, []byte(raw), dst, field)
}

func unmarshalEnum[T ~int](l legend[T], b []byte, dst *T, field string) error {
	v, err := parseEnum(l, string(b), field)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
