// Package pipeline assembles match results from raw job and résumé texts.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/feedback"
	"github.com/spigell/hh-matcher/internal/matching"
)

// Options toggles the optional parts of a result.
type Options struct {
	GenerateFeedback bool
	IncludeDebug     bool
}

// Assembler runs extraction, scoring and feedback for a job/résumé pair.
type Assembler struct {
	extractor ai.Extractor
	formatter ai.Formatter
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an Assembler. formatter may be nil, in which case canned
// feedback is used. A non-positive timeout disables the extraction deadline.
func New(extractor ai.Extractor, formatter ai.Formatter, timeout time.Duration, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		extractor: extractor,
		formatter: formatter,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// Match compares jobText with resumeText.
//
// Extraction failures never surface as errors: they produce a zero result
// with the failure recorded in its Error field. Errors from scoring, such as
// a *matching.ConfigError, are returned unchanged.
func (a *Assembler) Match(ctx context.Context, jobText, resumeText string, weights matching.Weights, opts Options) (*matching.MatchResult, error) {
	started := a.now()

	if err := weights.Validate(); err != nil {
		return nil, err
	}

	job, resume, err := a.extract(ctx, jobText, resumeText)
	if err != nil {
		a.logger.Warn("analysis failed, returning zero result", zap.Error(err))
		return matching.ZeroResult(err), nil
	}

	res, err := matching.Score(*job, *resume, weights)
	if err != nil {
		return nil, err
	}

	if opts.GenerateFeedback {
		res.Feedback = a.feedback(ctx, res)
	}

	if opts.IncludeDebug {
		res.Debug = &matching.Debug{
			ParsedJob:    *job,
			ParsedResume: *resume,
			Timestamp:    a.now().UTC(),
		}
	}

	a.logger.Info("match completed",
		zap.Int("score", res.Score),
		zap.Int("strengths", len(res.Report.Strengths)),
		zap.Int("missing_required", len(res.Report.MissingRequired)),
		zap.Duration("took", a.now().Sub(started)),
	)

	return res, nil
}

func (a *Assembler) extract(ctx context.Context, jobText, resumeText string) (*matching.StructuredDocument, *matching.StructuredDocument, error) {
	if a.extractor == nil {
		return nil, nil, &matching.ExtractionError{Kind: matching.KindJob, Cause: errors.New("no extractor configured")}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var job, resume *matching.StructuredDocument
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := a.extractOne(gctx, jobText, matching.KindJob)
		job = doc
		return err
	})
	g.Go(func() error {
		doc, err := a.extractOne(gctx, resumeText, matching.KindResume)
		resume = doc
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return job, resume, nil
}

func (a *Assembler) extractOne(ctx context.Context, text string, kind matching.DocumentKind) (*matching.StructuredDocument, error) {
	doc, err := a.extractor.Extract(ctx, text, kind)
	if err != nil {
		var exErr *matching.ExtractionError
		if errors.As(err, &exErr) {
			return nil, err
		}
		return nil, &matching.ExtractionError{Kind: kind, Cause: err}
	}
	if doc == nil {
		return nil, &matching.ExtractionError{Kind: kind, Cause: errors.New("extractor returned no document")}
	}
	return doc, nil
}

func (a *Assembler) feedback(ctx context.Context, res *matching.MatchResult) string {
	if a.formatter == nil {
		return feedback.Default(res.Score)
	}

	text, err := a.formatter.Format(ctx, res.Report, res.Score)
	if err != nil {
		a.logger.Warn("feedback generation failed, using default", zap.Int("score", res.Score), zap.Error(err))
		return feedback.Default(res.Score)
	}

	return text
}
