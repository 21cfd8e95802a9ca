package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
)

const defaultConcurrency = 4

// Meta identifies a pair in batch output.
type Meta struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	Employer   string `json:"employer,omitempty"`
	EmployerID string `json:"employer_id,omitempty"`
}

// Pair is one job/résumé comparison to run.
type Pair struct {
	Meta
	JobText    string
	ResumeText string
}

// PairResult is the outcome for one Pair.
type PairResult struct {
	Meta
	Result *matching.MatchResult `json:"result"`
}

// MatchPairs runs Match for every pair with at most concurrency pairs in
// flight. Results are ordered by score, highest first; ties keep input order.
// The first scoring error cancels the batch and is returned.
func (a *Assembler) MatchPairs(ctx context.Context, pairs []Pair, weights matching.Weights, opts Options, concurrency int) ([]PairResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make([]PairResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, pair := range pairs {
		g.Go(func() error {
			res, err := a.Match(gctx, pair.JobText, pair.ResumeText, weights, opts)
			if err != nil {
				return err
			}

			fields := append(logger.PairFields(pair.ID, pair.Title), zap.Int("score", res.Score))
			a.logger.Debug("pair matched", fields...)

			results[i] = PairResult{Meta: pair.Meta, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortByScore(results)

	a.logger.Info("batch completed", zap.Int("pairs", len(results)), zap.Int("concurrency", concurrency))

	return results, nil
}

// SortByScore orders results by score, highest first, keeping the relative
// order of equal scores.
func SortByScore(results []PairResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Result.Score > results[j].Result.Score
	})
}
