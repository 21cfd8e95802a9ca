package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hh-matcher/internal/matching"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expect    matching.StructuredDocument
		defaulted []string
	}{
		{
			name: "plain json",
			raw:  `{"education":"высшее","experience_years":3,"hard_skills":["Excel","ВЭЖХ"],"soft_skills":["ответственность"]}`,
			expect: matching.StructuredDocument{
				Education:       "высшее",
				ExperienceYears: 3,
				HardSkills:      []string{"Excel", "ВЭЖХ"},
				SoftSkills:      []string{"ответственность"},
			},
		},
		{
			name: "fenced json with string years",
			raw:  "```json\n{\"education\":\"\",\"experience_years\":\"2,5 года\",\"hard_skills\":[],\"soft_skills\":[]}\n```",
			expect: matching.StructuredDocument{
				ExperienceYears: 2.5,
				HardSkills:      []string{},
				SoftSkills:      []string{},
			},
		},
		{
			name: "missing fields get defaults",
			raw:  `{"hard_skills":["go"]}`,
			expect: matching.StructuredDocument{
				HardSkills: []string{"go"},
				SoftSkills: []string{},
			},
			defaulted: []string{"education", "experience_years", "soft_skills"},
		},
		{
			name: "delimited skill string and negative years",
			raw:  `{"education":null,"experience_years":-2,"hard_skills":"sql, python; docker","soft_skills":[]}`,
			expect: matching.StructuredDocument{
				HardSkills: []string{"sql", "python", "docker"},
				SoftSkills: []string{},
			},
			defaulted: []string{"education"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, defaulted, err := parseDocument(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, *doc)
			assert.Equal(t, tt.defaulted, defaulted)
		})
	}
}

func TestParseDocumentErrors(t *testing.T) {
	for _, raw := range []string{"", "null", "не json", "[1,2,3]", `{"hard_skills":[{"name":"go"}]}`} {
		_, _, err := parseDocument(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		raw    string
		expect string
	}{
		{raw: `{"feedback": " Стоит откликнуться. "}`, expect: "Стоит откликнуться."},
		{raw: `"Стоит откликнуться."`, expect: "Стоит откликнуться."},
		{raw: "Стоит откликнуться.\n", expect: "Стоит откликнуться."},
		{raw: `{"other": 1}`, expect: `{"other": 1}`},
		{raw: "  ", expect: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, parseFeedback(tt.raw), "raw %q", tt.raw)
	}
}

func TestCoerceYears(t *testing.T) {
	tests := []struct {
		in     any
		expect float64
	}{
		{in: 3.0, expect: 3},
		{in: 2, expect: 2},
		{in: "1.5", expect: 1.5},
		{in: "от 3 лет", expect: 0},
		{in: "3 года", expect: 3},
		{in: -1.0, expect: 0},
		{in: true, expect: 0},
		{in: nil, expect: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, coerceYears(tt.in), "input %v", tt.in)
	}
}
