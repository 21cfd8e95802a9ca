package ai

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompts/extract.md
var extractPrompt string

const defaultMaxLogLength = 200

var docTypes = map[matching.DocumentKind]string{
	matching.KindJob:    "вакансии",
	matching.KindResume: "резюме кандидата",
}

// LLMExtractor asks a model to pull document attributes out of free text.
type LLMExtractor struct {
	generator TextGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator TextGenerator, logger *zap.Logger, maxLogLength int) *LLMExtractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LLMExtractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *LLMExtractor) Extract(ctx context.Context, text string, kind matching.DocumentKind) (*matching.StructuredDocument, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &matching.ExtractionError{Kind: kind, Cause: errors.New("text is empty")}
	}

	system := buildExtractPrompt(kind)

	e.logger.Debug("extraction request",
		zap.String("kind", string(kind)),
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, system, "Текст:\n"+text)
	if err != nil {
		return nil, &matching.ExtractionError{Kind: kind, Cause: err}
	}

	e.logger.Debug("extraction response",
		zap.String("kind", string(kind)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	doc, defaulted, err := parseDocument(raw)
	if err != nil {
		e.logger.Debug("unparseable extraction response", zap.String("raw", utils.TruncateForLog(raw, e.maxLogLen)))
		return nil, &matching.ExtractionError{Kind: kind, Cause: err}
	}

	if len(defaulted) > 0 {
		e.logger.Warn("model response misses fields, defaults applied",
			zap.String("kind", string(kind)),
			zap.Strings("fields", defaulted),
		)
	}

	if err := doc.Validate(kind); err != nil {
		return nil, &matching.ExtractionError{Kind: kind, Cause: err}
	}

	e.logger.Info("document extracted",
		zap.String("kind", string(kind)),
		zap.Float64("experience_years", doc.ExperienceYears),
		zap.Int("hard_skills", len(doc.HardSkills)),
		zap.Int("soft_skills", len(doc.SoftSkills)),
	)

	return doc, nil
}

func buildExtractPrompt(kind matching.DocumentKind) string {
	docType, ok := docTypes[kind]
	if !ok {
		docType = "документа"
	}
	return strings.ReplaceAll(extractPrompt, "{{DOC_TYPE}}", docType)
}
