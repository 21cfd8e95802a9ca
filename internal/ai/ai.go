// Package ai turns free text into structured documents and match reports into
// prose with the help of a language model.
package ai

import (
	"context"

	"github.com/spigell/hh-matcher/internal/matching"
)

// TextGenerator sends a system instruction and a user message to a model and
// returns the textual answer.
type TextGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Extractor produces a StructuredDocument from raw job or résumé text.
// Failures are reported as *matching.ExtractionError.
type Extractor interface {
	Extract(ctx context.Context, text string, kind matching.DocumentKind) (*matching.StructuredDocument, error)
}

// Formatter writes human feedback for a computed report.
type Formatter interface {
	Format(ctx context.Context, report matching.MatchReport, score int) (string, error)
}
