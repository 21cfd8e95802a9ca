package filtering

import (
	"fmt"
	"slices"

	"github.com/spigell/hh-matcher/internal/pipeline"
)

// Step names.
const (
	NameMinimumScore = "minimum_score"
	NameFailed       = "failed"
	NameEmployers    = "employers"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) DisabledReason() string { return t.reason }

type minimumScoreFilter struct {
	toggle
	threshold int
}

// NewMinimumScore drops results scoring below threshold. A non-positive threshold disables the step.
func NewMinimumScore(threshold int) Filter {
	f := &minimumScoreFilter{threshold: threshold}
	if threshold <= 0 {
		f.Disable("minimum score is not set")
	}
	return f
}

func (f *minimumScoreFilter) Name() string { return NameMinimumScore }

func (f *minimumScoreFilter) Keep(r pipeline.PairResult) (bool, string) {
	if r.Result.Score >= f.threshold {
		return true, ""
	}
	return false, fmt.Sprintf("score %d is below %d", r.Result.Score, f.threshold)
}

type failedFilter struct {
	toggle
}

// NewFailed drops results whose analysis failed.
func NewFailed() Filter {
	return &failedFilter{}
}

func (f *failedFilter) Name() string { return NameFailed }

func (f *failedFilter) Keep(r pipeline.PairResult) (bool, string) {
	if r.Result.Failed() {
		return false, r.Result.Error
	}
	return true, ""
}

type employersFilter struct {
	toggle
	employers []string
}

// NewEmployers drops results for the listed employer IDs.
func NewEmployers(employers []string) Filter {
	f := &employersFilter{employers: employers}
	if len(employers) == 0 {
		f.Disable("no employers configured")
	}
	return f
}

func (f *employersFilter) Name() string { return NameEmployers }

func (f *employersFilter) Keep(r pipeline.PairResult) (bool, string) {
	if slices.Contains(f.employers, r.EmployerID) {
		return false, fmt.Sprintf("employer %s is excluded", r.EmployerID)
	}
	return true, ""
}
