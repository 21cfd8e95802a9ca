// Package filtering narrows batch results down to the ones worth showing.
package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/pipeline"
)

// Filter is a single step over batch results.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	// Keep reports whether the result survives the step. When it does not,
	// the returned reason explains why.
	Keep(r pipeline.PairResult) (bool, string)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Dropped is a result removed by a step.
type Dropped struct {
	pipeline.PairResult
	Filter string
	Reason string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

// Run applies steps in order. Disabled steps are skipped.
func Run(steps []Filter, results []pipeline.PairResult, logger *zap.Logger) ([]pipeline.PairResult, []Dropped) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dropped []Dropped
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		kept := make([]pipeline.PairResult, 0, len(results))
		for _, r := range results {
			ok, reason := step.Keep(r)
			if ok {
				kept = append(kept, r)
				continue
			}
			dropped = append(dropped, Dropped{PairResult: r, Filter: step.Name(), Reason: reason})
		}

		info := Step{Initial: len(results), Dropped: len(results) - len(kept), Left: len(kept)}
		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		results = kept
	}

	return results, dropped
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		s := Status{Name: step.Name(), Enabled: step.IsEnabled()}
		if r, ok := step.(interface{ DisabledReason() string }); ok {
			s.Reason = r.DisabledReason()
		}
		statuses = append(statuses, s)
	}
	return statuses
}
