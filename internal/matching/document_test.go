package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillIsIdempotent(t *testing.T) {
	inputs := []string{"  Python ", "SQL", "Хроматография\t", "", "   "}

	for _, in := range inputs {
		once := NormalizeSkill(in)
		assert.Equal(t, once, NormalizeSkill(once), "input %q", in)
	}
	assert.Equal(t, "хроматография", NormalizeSkill("Хроматография\t"))
}

func TestSkillSetDropsEmptyAndDuplicates(t *testing.T) {
	set := SkillSet([]string{"Go", " go", "", "  ", "SQL"})

	assert.Equal(t, []string{"go", "sql"}, set.Sorted())
}

func TestSkillsSplit(t *testing.T) {
	required := SkillSet([]string{"go", "sql", "docker"})
	actual := SkillSet([]string{"SQL", "python"})

	matched, missing := required.Split(actual)

	assert.Equal(t, []string{"sql"}, matched)
	assert.Equal(t, []string{"docker", "go"}, missing)
}

func TestNormalized(t *testing.T) {
	doc := StructuredDocument{
		Education:       "  МГУ ",
		ExperienceYears: 2,
		HardSkills:      []string{"Excel", "excel "},
	}

	got := doc.Normalized()

	assert.Equal(t, "МГУ", got.Education)
	assert.Equal(t, []string{"excel"}, got.HardSkills)
	assert.Equal(t, []string{}, got.SoftSkills)
	assert.Equal(t, got, got.Normalized())
}

func TestWeightsMerge(t *testing.T) {
	base := DefaultWeights()
	merged := base.Merge(map[string]float64{WeightEducation: 40})

	assert.Equal(t, float64(40), merged[WeightEducation])
	assert.Equal(t, float64(25), base[WeightEducation])
	assert.NoError(t, merged.Validate())
}
