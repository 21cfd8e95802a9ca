package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/filtering"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/pipeline"
)

func TestGetConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.AI.Provider)
	assert.Equal(t, 2*time.Minute, config.AI.Timeout)
	assert.Equal(t, 5*time.Minute, config.AI.Ollama.Timeout)
	assert.Equal(t, 4, config.Batch.Concurrency)
	assert.Equal(t, "results", config.Output.ResultsDir)
	assert.Equal(t, map[string]float64(matching.DefaultWeights()), config.Scoring.Weights)
	assert.NotNil(t, config.Headhunter)
}

func TestGetConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hh-matcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  provider: ollama
  ollama:
    model: qwen2.5:7b
scoring:
  weights:
    education_match: 10
    experience_match: 30
    hard_skills_match: 50
    soft_skills_match: 10
headhunter:
  employers: ["42"]
  search:
    text: лаборант
    area: [1]
`), 0o644))

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	config, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "ollama", config.AI.Provider)
	assert.Equal(t, "qwen2.5:7b", config.AI.Ollama.Model)
	assert.Equal(t, 50.0, config.Scoring.Weights[matching.WeightHardSkills])
	assert.Equal(t, []string{"42"}, config.Headhunter.Employers)
	require.NotNil(t, config.Headhunter.Search)
	assert.Equal(t, "лаборант", config.Headhunter.Search.Text)
	assert.Equal(t, []int{1}, config.Headhunter.Search.Areas)
	assert.Equal(t, 10.0, config.Scoring.Weights[matching.WeightSoftSkills])
}

func TestWeightsFromConfig(t *testing.T) {
	config := &Config{Scoring: &ScoringConfig{}}

	weights, err := weightsFromConfig(config, map[string]string{matching.WeightHardSkills: " 50 "})
	require.NoError(t, err)
	assert.Equal(t, 50.0, weights[matching.WeightHardSkills])
	assert.Equal(t, 25.0, weights[matching.WeightEducation])

	_, err = weightsFromConfig(config, map[string]string{matching.WeightSoftSkills: "many"})
	var cfgErr *matching.ConfigError
	require.True(t, errors.As(err, &cfgErr))

	config.Scoring.Weights = map[string]float64{matching.WeightEducation: 1}
	_, err = weightsFromConfig(config, nil)
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Missing, 3)
}

func TestSourceValidate(t *testing.T) {
	assert.Error(t, source{}.validate("job"))
	assert.Error(t, source{path: "a", remote: "b"}.validate("job"))
	assert.NoError(t, source{path: "a"}.validate("job"))
	assert.NoError(t, source{remote: "b"}.validate("job"))
}

func newScoreCommand() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().String("job", "", "")
	c.Flags().String("resume", "", "")
	c.Flags().StringToString("weight", nil, "")
	c.Flags().Bool("raw", false, "")
	return c
}

func TestRunScore(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.json")
	resume := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(job, []byte(`{"education":"высшее химическое","experience_years":3,"hard_skills":["хроматография","excel"],"soft_skills":["коммуникабельность"]}`), 0o644))
	require.NoError(t, os.WriteFile(resume, []byte(`{"education":"МГУ","experience_years":2,"hard_skills":["Excel","хроматография"],"soft_skills":["коммуникабельность"]}`), 0o644))

	c := newScoreCommand()
	require.NoError(t, c.Flags().Set("job", job))
	require.NoError(t, c.Flags().Set("resume", resume))
	require.NoError(t, c.Flags().Set("raw", "true"))

	var out bytes.Buffer
	require.NoError(t, runScore(c, &Config{Scoring: &ScoringConfig{}}, &out))

	res, err := matching.UnmarshalResult(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 92, res.Score)
	assert.NotEmpty(t, res.Feedback)
}

func TestRunScoreRejectsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(job, []byte(`{"education":"","experience_years":-1,"hard_skills":[],"soft_skills":[]}`), 0o644))

	c := newScoreCommand()
	require.NoError(t, c.Flags().Set("job", job))
	require.NoError(t, c.Flags().Set("resume", job))

	err := runScore(c, &Config{Scoring: &ScoringConfig{}}, &bytes.Buffer{})
	var dataErr *matching.DataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestFilePairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemist.txt")
	require.NoError(t, os.WriteFile(path, []byte("<p>Химик</p>"), 0o644))

	pairs, err := filePairs([]string{path}, "резюме")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "chemist", pairs[0].Title)
	assert.Equal(t, "Химик", pairs[0].JobText)
	assert.Equal(t, "резюме", pairs[0].ResumeText)
}

func TestExcludeDropped(t *testing.T) {
	file := filepath.Join(t.TempDir(), "exclude.json")

	dropped := []filtering.Dropped{
		{
			PairResult: pipeline.PairResult{
				Meta:   pipeline.Meta{ID: "5", URL: "https://hh.ru/vacancy/5", Employer: "Acme"},
				Result: &matching.MatchResult{Score: 10},
			},
			Filter: filtering.NameMinimumScore,
			Reason: "score 10 is below 50",
		},
		{
			PairResult: pipeline.PairResult{
				Meta:   pipeline.Meta{ID: "123"},
				Result: matching.ZeroResult(errors.New("extracting job: context deadline exceeded")),
			},
			Filter: filtering.NameFailed,
			Reason: "extracting job: context deadline exceeded",
		},
	}

	require.NoError(t, excludeDropped(file, dropped, zap.NewNop()))

	excluded, err := headhunter.GetExcludedVacanciesFromFile(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, excluded.VacanciesIDs())
	assert.Equal(t, "Acme", excluded.Items[0].EmployerName)
	assert.Equal(t, "minimum_score: score 10 is below 50", excluded.Items[0].Reason)

	assert.Error(t, excludeDropped("", dropped, zap.NewNop()))
}

func TestExcludeDroppedKeepsFailedResults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "exclude.json")

	failed := pipeline.PairResult{
		Meta:   pipeline.Meta{ID: "123"},
		Result: matching.ZeroResult(errors.New("extracting job: 503 unavailable")),
	}

	// The failed step is skipped, so the zero score is dropped by minimum_score instead.
	steps := []filtering.Filter{filtering.NewFailed(), filtering.NewMinimumScore(50)}
	filtering.DisableByName(steps, filtering.NameFailed, "skipped")
	kept, dropped := filtering.Run(steps, []pipeline.PairResult{failed}, zap.NewNop())
	require.Empty(t, kept)
	require.Len(t, dropped, 1)

	require.NoError(t, excludeDropped(file, dropped, zap.NewNop()))

	excluded, err := headhunter.GetExcludedVacanciesFromFile(file)
	require.NoError(t, err)
	assert.Empty(t, excluded.Items)
}

func TestRunBatchRefusesExcludeWithFiles(t *testing.T) {
	c := &cobra.Command{}
	addDocumentFlags(c)
	c.Flags().Bool("search", false, "")
	c.Flags().Bool("exclude-dropped", false, "")
	require.NoError(t, c.Flags().Set("exclude-dropped", "true"))

	config := &Config{Scoring: &ScoringConfig{}, Output: &OutputConfig{}}
	err := runBatch(c, []string{"job.txt"}, config, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--exclude-dropped")
}

func TestRedacted(t *testing.T) {
	config := &Config{AI: &AIConfig{Gemini: &GeminiConfig{APIKey: "secret"}}}

	c := redacted(config)
	assert.Equal(t, "***", c.AI.Gemini.APIKey)
	assert.Equal(t, "secret", config.AI.Gemini.APIKey)
}
