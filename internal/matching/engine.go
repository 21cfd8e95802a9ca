package matching

import (
	"math"
	"strconv"
)

// Finding texts.
const (
	FindingEducation   = "Релевантное образование"
	markHardMatched    = "✓ "
	markHardMissing    = "✗ "
	markSoftMatched    = "+ "
	maxScore           = 100
	scoreDetailsDigits = 2
)

// Score compares a job posting with a résumé under the given weights.
//
// Weights are validated before anything is computed and a *ConfigError is
// returned for a missing key. Documents violating their contract yield a
// *DataError. Score has no side effects and is safe for concurrent use.
func Score(job, resume StructuredDocument, weights Weights) (*MatchResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := job.Validate(KindJob); err != nil {
		return nil, err
	}
	if err := resume.Validate(KindResume); err != nil {
		return nil, err
	}

	s := &scorer{report: NewMatchReport()}

	education := s.education(job, resume, weights[WeightEducation])
	experience := s.experience(job.ExperienceYears, resume.ExperienceYears, weights[WeightExperience])
	hard := s.hardSkills(SkillSet(job.HardSkills), SkillSet(resume.HardSkills), weights[WeightHardSkills])
	soft := s.softSkills(SkillSet(job.SoftSkills), SkillSet(resume.SoftSkills), weights[WeightSoftSkills])

	s.report.ScoreDetails[CategoryEducation] = round2(education)
	s.report.ScoreDetails[CategoryExperience] = round2(experience)
	s.report.ScoreDetails[CategoryHardSkills] = round2(hard)
	s.report.ScoreDetails[CategorySoftSkills] = round2(soft)

	total := education + experience + hard + soft

	return &MatchResult{
		Score:  finalScore(total),
		Report: s.report,
	}, nil
}

type scorer struct {
	report MatchReport
}

func (s *scorer) strength(f string) { s.report.Strengths = append(s.report.Strengths, f) }
func (s *scorer) partial(f string)  { s.report.PartialMatch = append(s.report.PartialMatch, f) }
func (s *scorer) missing(f string)  { s.report.MissingRequired = append(s.report.MissingRequired, f) }

// education awards the full weight when both sides state any education at all.
func (s *scorer) education(job, resume StructuredDocument, weight float64) float64 {
	if !job.HasEducation() {
		return 0
	}
	if !resume.HasEducation() {
		s.missing(FindingEducation)
		return 0
	}
	s.strength(FindingEducation)
	return weight
}

func (s *scorer) experience(required, actual, weight float64) float64 {
	switch {
	case required == 0:
		return 0
	case actual >= required:
		s.strength(ExperienceFinding(actual, required))
		return weight
	case actual > 0:
		s.partial(ExperienceFinding(actual, required))
		return actual / required * weight
	default:
		s.missing(MissingExperienceFinding(required))
		return 0
	}
}

func (s *scorer) hardSkills(required, actual Skills, weight float64) float64 {
	if len(required) == 0 {
		return 0
	}

	points := weight / float64(len(required))
	matched, missing := required.Split(actual)
	for _, skill := range matched {
		s.strength(markHardMatched + skill)
	}
	for _, skill := range missing {
		s.missing(markHardMissing + skill)
	}

	return float64(len(matched)) * points
}

// softSkills only ever rewards matches; gaps produce no findings.
func (s *scorer) softSkills(wanted, actual Skills, weight float64) float64 {
	points := weight / float64(max(1, len(wanted)))
	matched, _ := wanted.Split(actual)
	for _, skill := range matched {
		s.strength(markSoftMatched + skill)
	}

	return float64(len(matched)) * points
}

// ExperienceFinding renders the experience comparison shown for full and partial matches.
func ExperienceFinding(actual, required float64) string {
	return "Опыт: " + formatYears(actual) + " лет (требуется " + formatYears(required) + ")"
}

// MissingExperienceFinding renders the finding for a candidate without experience.
func MissingExperienceFinding(required float64) string {
	return "Опыт работы " + formatYears(required) + " лет"
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	p := math.Pow(10, scoreDetailsDigits)
	return math.RoundToEven(v*p) / p
}

func finalScore(total float64) int {
	clamped := math.Max(0, math.Min(maxScore, total))
	return int(math.RoundToEven(clamped))
}
