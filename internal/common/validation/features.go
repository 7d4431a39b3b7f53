package validation

import (
	"encoding/json"
	"fmt"

	"altcred/internal/common/errors"
	"altcred/internal/models"
)

// FeatureSchema returns the JSON schema for an applicant payload: the six
// features are required numbers and extra keys are allowed.
func FeatureSchema() map[string]interface{} {
	names := models.FeatureNames()
	properties := make(map[string]interface{}, len(names))
	required := make([]interface{}, 0, len(names))
	for _, name := range names {
		properties[name] = map[string]interface{}{"type": "number"}
		required = append(required, name)
	}
	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": true,
	}
}

// FeatureValidator turns an untyped applicant payload into a FeatureVector.
type FeatureValidator struct {
	schema *Schema
}

func NewFeatureValidator() (*FeatureValidator, error) {
	schema, err := Compile(FeatureSchema())
	if err != nil {
		return nil, err
	}
	return &FeatureValidator{schema: schema}, nil
}

// MustFeatureValidator panics if the built-in feature schema fails to compile.
func MustFeatureValidator() *FeatureValidator {
	v, err := NewFeatureValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns the first error in canonical feature order. Missing keys
// are reported before type errors.
func (v *FeatureValidator) Validate(input map[string]interface{}) (models.FeatureVector, *errors.StandardError) {
	names := models.FeatureNames()

	for _, name := range names {
		if _, ok := input[name]; !ok {
			return models.FeatureVector{}, errors.NewMissingFieldError(name)
		}
	}

	result, err := v.schema.Validate(input)
	if err != nil {
		return models.FeatureVector{}, errors.NewParseError("Invalid applicant payload", err)
	}
	if !result.Valid {
		for _, name := range names {
			if result.HasField(name) {
				return models.FeatureVector{}, errors.NewInvalidFieldError(name, "expected number")
			}
		}
		return models.FeatureVector{}, errors.NewParseError("Invalid applicant payload", fmt.Errorf("%v", result.Errors))
	}

	values := make([]float64, len(names))
	for i, name := range names {
		f, ok := toFloat(input[name])
		if !ok {
			return models.FeatureVector{}, errors.NewInvalidFieldError(name, "expected number")
		}
		values[i] = f
	}
	return models.FeatureVectorFromValues(values), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
