package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/hh-matcher/internal/matching"
)

const (
	fieldEducation  = "education"
	fieldExperience = "experience_years"
	fieldHardSkills = "hard_skills"
	fieldSoftSkills = "soft_skills"
)

var (
	errEmptyResponse = errors.New("model returned empty response")
	leadingNumber    = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)`)
	skillSeparators  = regexp.MustCompile(`[,;\n]`)
)

// documentDefaults holds the value used for every field the model left out.
var documentDefaults = map[string]any{
	fieldEducation:  "",
	fieldExperience: 0.0,
	fieldHardSkills: []any{},
	fieldSoftSkills: []any{},
}

// parseDocument decodes a model answer into a StructuredDocument. It returns
// the names of fields that had to be defaulted.
func parseDocument(raw string) (*matching.StructuredDocument, []string, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, nil, errEmptyResponse
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, nil, fmt.Errorf("parse model response: %w", err)
	}
	if data == nil {
		return nil, nil, errEmptyResponse
	}

	var defaulted []string
	for _, field := range []string{fieldEducation, fieldExperience, fieldHardSkills, fieldSoftSkills} {
		if v, ok := data[field]; !ok || v == nil {
			data[field] = documentDefaults[field]
			defaulted = append(defaulted, field)
		}
	}

	data[fieldEducation] = coerceString(data[fieldEducation])
	data[fieldExperience] = coerceYears(data[fieldExperience])
	data[fieldHardSkills] = coerceSkills(data[fieldHardSkills])
	data[fieldSoftSkills] = coerceSkills(data[fieldSoftSkills])

	var doc matching.StructuredDocument
	cfg := &mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, nil, fmt.Errorf("decode model response: %w", err)
	}

	return &doc, defaulted, nil
}

// parseFeedback accepts plain text, a JSON string or an object with a feedback key.
func parseFeedback(raw string) string {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		switch v := data.(type) {
		case string:
			return strings.TrimSpace(v)
		case map[string]any:
			if text, ok := v["feedback"]; ok {
				return coerceString(text)
			}
		}
	}

	return strings.Trim(strings.TrimSpace(raw), "\"\n ")
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// coerceYears understands numbers, numeric strings with either decimal
// separator and phrases starting with a number. Anything else, and negative
// values, become zero.
func coerceYears(v any) float64 {
	var years float64
	switch val := v.(type) {
	case float64:
		years = val
	case int:
		years = float64(val)
	case bool:
		years = 0
	case string:
		m := leadingNumber.FindStringSubmatch(val)
		if m == nil {
			return 0
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			return 0
		}
		years = f
	default:
		return 0
	}

	if math.IsNaN(years) || math.IsInf(years, 0) || years < 0 {
		return 0
	}
	return years
}

// coerceSkills splits a single delimited string into a list. Lists are passed
// through for the decoder.
func coerceSkills(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	parts := skillSeparators.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
