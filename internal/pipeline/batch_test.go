package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/cache"
	"github.com/spigell/hh-matcher/internal/matching"
)

func TestMatchPairsSortsByScore(t *testing.T) {
	ex := chemistryExtractor()
	ex.docs["go job"] = matching.StructuredDocument{HardSkills: []string{"go"}}
	ex.errs = map[string]error{"broken job": errors.New("timeout")}
	a := New(ex, nil, time.Second, zap.NewNop())

	pairs := []Pair{
		{Meta: Meta{ID: "1", Title: "empty"}, JobText: "empty job", ResumeText: "resume"},
		{Meta: Meta{ID: "2", Title: "chemist"}, JobText: "job", ResumeText: "resume"},
		{Meta: Meta{ID: "3", Title: "broken"}, JobText: "broken job", ResumeText: "resume"},
		{Meta: Meta{ID: "4", Title: "go"}, JobText: "go job", ResumeText: "resume"},
	}

	results, err := a.MatchPairs(context.Background(), pairs, matching.DefaultWeights(), Options{}, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids)
	assert.Equal(t, 92, results[0].Result.Score)
	assert.True(t, results[2].Result.Failed())
}

func TestMatchPairsRespectsConcurrency(t *testing.T) {
	ex := chemistryExtractor()
	ex.delay = 10 * time.Millisecond
	a := New(ex, nil, time.Second, zap.NewNop())

	pairs := make([]Pair, 6)
	for i := range pairs {
		pairs[i] = Pair{JobText: "job", ResumeText: "resume"}
	}

	_, err := a.MatchPairs(context.Background(), pairs, matching.DefaultWeights(), Options{}, 1)
	require.NoError(t, err)

	// One pair in flight extracts its job and résumé concurrently.
	assert.LessOrEqual(t, ex.peak.Load(), int32(2))
}

func TestMatchPairsConfigError(t *testing.T) {
	a := New(chemistryExtractor(), nil, 0, zap.NewNop())

	_, err := a.MatchPairs(context.Background(), []Pair{{JobText: "job", ResumeText: "resume"}}, matching.Weights{}, Options{}, 0)

	var cfgErr *matching.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestMatchPairsDataErrorAbortsBatch(t *testing.T) {
	ex := chemistryExtractor()
	ex.docs["bad"] = matching.StructuredDocument{ExperienceYears: -1}
	a := New(ex, nil, 0, zap.NewNop())

	results, err := a.MatchPairs(context.Background(), []Pair{
		{JobText: "job", ResumeText: "resume"},
		{JobText: "bad", ResumeText: "resume"},
	}, matching.DefaultWeights(), Options{}, 2)

	assert.Nil(t, results)
	var dataErr *matching.DataError
	assert.True(t, errors.As(err, &dataErr))
}

func TestMatchPairsSharedResumeSurvivesFailedNeighbour(t *testing.T) {
	ex := chemistryExtractor()
	ex.errs = map[string]error{"broken job": errors.New("model unavailable")}
	ex.delays = map[string]time.Duration{"resume": 50 * time.Millisecond}

	pairs := []Pair{
		{Meta: Meta{ID: "good"}, JobText: "job", ResumeText: "resume"},
		{Meta: Meta{ID: "broken"}, JobText: "broken job", ResumeText: "resume"},
	}

	// Every round starts with a cold cache so the résumé is extracted once
	// for both pairs.
	for i := 0; i < 5; i++ {
		store, err := cache.NewInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		a := New(ai.NewCachedExtractor(ex, store, "test", zap.NewNop()), nil, time.Second, zap.NewNop())

		results, err := a.MatchPairs(context.Background(), pairs, matching.DefaultWeights(), Options{}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "good", results[0].ID)
		assert.Empty(t, results[0].Result.Error)
		assert.Equal(t, 92, results[0].Result.Score)
		assert.True(t, results[1].Result.Failed())
	}
}
