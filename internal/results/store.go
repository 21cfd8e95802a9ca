// Package results persists match results as JSON files.
package results

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/hh-matcher/internal/matching"
)

//go:embed result.schema.json
var resultSchema string

const (
	filePrefix = "match_result_"
	timeLayout = "20060102_150405"
)

var schemaLoader = gojsonschema.NewStringLoader(resultSchema)

// ValidationError lists schema violations found in a persisted result.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Store writes results into a directory.
type Store struct {
	dir   string
	now   func() time.Time
	newID func() string
}

func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		now: time.Now,
		newID: func() string {
			return uuid.NewString()[:8]
		},
	}
}

// Save writes res to a new file named after the current time and returns its path.
func (s *Store) Save(res *matching.MatchResult) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results dir: %w", err)
	}

	data, err := res.MarshalIndent()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%s_%s.json", filePrefix, s.now().Format(timeLayout), s.newID())
	path := filepath.Join(s.dir, name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("writing temporary result: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("saving result: %w", err)
	}

	return path, nil
}

// Load reads a result file, checks it against the result schema and decodes it.
func Load(path string) (*matching.MatchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return matching.UnmarshalResult(data)
}

// Validate checks a serialized result against the result schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating result: %w", err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, e := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{Field: e.Field(), Message: e.Description()})
	}
	return verr
}
