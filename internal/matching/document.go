// Package matching holds the data model and the deterministic scoring engine
// that compares a job posting with a résumé.
package matching

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/hh-matcher/internal/utils"
)

// DocumentKind tells which side of a match a document describes.
type DocumentKind string

const (
	KindJob    DocumentKind = "job"
	KindResume DocumentKind = "resume"
)

// StructuredDocument is the attribute view of a job posting or a résumé.
type StructuredDocument struct {
	Education       string   `json:"education"`
	ExperienceYears float64  `json:"experience_years" validate:"gte=0"`
	HardSkills      []string `json:"hard_skills"`
	SoftSkills      []string `json:"soft_skills"`
}

const maxValueInError = 64

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the document invariants. Violations are reported as *DataError.
func (d *StructuredDocument) Validate(kind DocumentKind) error {
	if math.IsNaN(d.ExperienceYears) || math.IsInf(d.ExperienceYears, 0) {
		return &DataError{Kind: kind, Field: "experience_years", Message: "must be a finite number"}
	}

	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &DataError{
				Kind:    kind,
				Field:   verrs[0].Field(),
				Message: fmt.Sprintf("failed %q constraint (value %s)", verrs[0].Tag(), utils.TruncateForLog(fmt.Sprint(verrs[0].Value()), maxValueInError)),
			}
		}
		return &DataError{Kind: kind, Field: "document", Message: err.Error()}
	}

	return nil
}

// HasEducation reports whether the education field carries any text.
func (d *StructuredDocument) HasEducation() bool {
	return strings.TrimSpace(d.Education) != ""
}

// Normalized returns a copy with trimmed education and normalized, deduplicated,
// sorted skill lists.
func (d StructuredDocument) Normalized() StructuredDocument {
	return StructuredDocument{
		Education:       strings.TrimSpace(d.Education),
		ExperienceYears: d.ExperienceYears,
		HardSkills:      SkillSet(d.HardSkills).Sorted(),
		SoftSkills:      SkillSet(d.SoftSkills).Sorted(),
	}
}

// NormalizeSkill lowercases and trims a skill name. Applying it twice is a no-op.
func NormalizeSkill(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Skills is a set of normalized skill names.
type Skills map[string]struct{}

// SkillSet builds a set from raw skill names. Entries that normalize to an
// empty string are dropped.
func SkillSet(raw []string) Skills {
	set := make(Skills, len(raw))
	for _, s := range raw {
		if n := NormalizeSkill(s); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s Skills) Has(skill string) bool {
	_, ok := s[skill]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s Skills) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Split partitions the receiver into members present in other and members missing from it.
// Both slices are sorted.
func (s Skills) Split(other Skills) (matched, missing []string) {
	for _, skill := range s.Sorted() {
		if other.Has(skill) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}
