package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Score detail categories.
const (
	CategoryEducation  = "education"
	CategoryExperience = "experience"
	CategoryHardSkills = "hard_skills"
	CategorySoftSkills = "soft_skills"
)

// ErrorFeedback is the feedback attached to a result produced after a failed analysis.
const ErrorFeedback = "Произошла ошибка при анализе. Проверьте логи."

// MatchReport explains how a score was reached.
type MatchReport struct {
	MissingRequired []string           `json:"missing_required"`
	PartialMatch    []string           `json:"partial_match"`
	Strengths       []string           `json:"strengths"`
	ScoreDetails    map[string]float64 `json:"score_details"`
}

// NewMatchReport returns an empty report with non-nil collections.
func NewMatchReport() MatchReport {
	return MatchReport{
		MissingRequired: []string{},
		PartialMatch:    []string{},
		Strengths:       []string{},
		ScoreDetails:    map[string]float64{},
	}
}

// Debug carries the documents a result was computed from.
type Debug struct {
	ParsedJob    StructuredDocument `json:"parsed_job"`
	ParsedResume StructuredDocument `json:"parsed_resume"`
	Timestamp    time.Time          `json:"timestamp"`
}

// MatchResult is the outcome of a single job/résumé comparison.
type MatchResult struct {
	Score    int         `json:"score"`
	Report   MatchReport `json:"report"`
	Feedback string      `json:"feedback,omitempty"`
	Debug    *Debug      `json:"debug,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// ZeroResult builds the degraded result returned when analysis could not run.
func ZeroResult(err error) *MatchResult {
	res := &MatchResult{
		Score:    0,
		Report:   NewMatchReport(),
		Feedback: ErrorFeedback,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// Failed reports whether the result carries an analysis error.
func (r *MatchResult) Failed() bool {
	return r.Error != ""
}

// MarshalIndent serializes the result for persistence.
func (r *MatchResult) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode match result: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalResult decodes a persisted result. Missing collections are replaced
// with empty ones so that decoded results compare equal to freshly computed ones.
func UnmarshalResult(data []byte) (*MatchResult, error) {
	var res MatchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode match result: %w", err)
	}

	if res.Report.MissingRequired == nil {
		res.Report.MissingRequired = []string{}
	}
	if res.Report.PartialMatch == nil {
		res.Report.PartialMatch = []string{}
	}
	if res.Report.Strengths == nil {
		res.Report.Strengths = []string{}
	}
	if res.Report.ScoreDetails == nil {
		res.Report.ScoreDetails = map[string]float64{}
	}

	return &res, nil
}
