package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompts/feedback.md
var feedbackPrompt string

const topFindings = 5

// LLMFormatter asks a model to explain a match report in a few sentences.
type LLMFormatter struct {
	generator TextGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewFormatter(generator TextGenerator, logger *zap.Logger, maxLogLength int) *LLMFormatter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LLMFormatter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (f *LLMFormatter) Format(ctx context.Context, report matching.MatchReport, score int) (string, error) {
	message := buildFeedbackMessage(report, score)

	raw, err := f.generator.GenerateContent(ctx, feedbackPrompt, message)
	if err != nil {
		return "", &matching.FormattingError{Cause: err}
	}

	f.logger.Debug("feedback response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, f.maxLogLen)),
	)

	text := parseFeedback(raw)
	if text == "" {
		return "", &matching.FormattingError{Cause: errors.New("model returned empty feedback")}
	}

	return text, nil
}

func buildFeedbackMessage(report matching.MatchReport, score int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Итоговый скор: %d/100\n\n", score)
	b.WriteString("Отчёт:\n")
	fmt.Fprintf(&b, "- Сильные стороны: %s\n", joinFindings(head(report.Strengths, topFindings)))
	fmt.Fprintf(&b, "- Частичные совпадения: %s\n", joinFindings(report.PartialMatch))
	fmt.Fprintf(&b, "- Отсутствующие обязательные навыки: %s\n", joinFindings(head(report.MissingRequired, topFindings)))
	return b.String()
}

func head(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func joinFindings(list []string) string {
	if len(list) == 0 {
		return "нет"
	}
	return strings.Join(list, "; ")
}
