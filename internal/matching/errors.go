package matching

import (
	"fmt"
	"strings"
)

// ConfigError reports an unusable weight configuration.
type ConfigError struct {
	Missing []string
	Message string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("config error: missing weights: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// DataError reports a structured document that violates its contract.
type DataError struct {
	Kind    DocumentKind
	Field   string
	Message string
}

func (e *DataError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("data error in %s.%s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("data error in %s: %s", e.Field, e.Message)
}

// ExtractionError wraps any failure to turn raw text into a StructuredDocument.
type ExtractionError struct {
	Kind  DocumentKind
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extracting %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("extracting %s failed", e.Kind)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// FormattingError wraps a failure to produce feedback prose.
type FormattingError struct {
	Cause error
}

func (e *FormattingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("formatting feedback: %v", e.Cause)
	}
	return "formatting feedback failed"
}

func (e *FormattingError) Unwrap() error {
	return e.Cause
}
