package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/ai/gemini"
	"github.com/spigell/hh-matcher/internal/ai/ollama"
	"github.com/spigell/hh-matcher/internal/cache"
	"github.com/spigell/hh-matcher/internal/headhunter"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/pipeline"
	"github.com/spigell/hh-matcher/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerOllama = "ollama"
)

// modelGenerator is a generator that knows which model it talks to.
type modelGenerator interface {
	ai.TextGenerator
	Model() string
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (modelGenerator, string, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", providerGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
		}

		genLogger := logger.WithCommonFields(log, providerGemini, cfg.Gemini.Model).With(
			zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
		)

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
		if err != nil {
			return nil, "", err
		}
		return generator, providerGemini, nil
	case providerOllama:
		generator := ollama.New(ollama.Options{
			URL:         cfg.Ollama.URL,
			Model:       cfg.Ollama.Model,
			Temperature: cfg.Ollama.Temperature,
			Format:      cfg.Ollama.Format,
			Timeout:     cfg.Ollama.Timeout,
		}, logger.WithCommonFields(log, providerOllama, cfg.Ollama.Model))
		return generator, providerOllama, nil
	default:
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// newAssembler wires the configured model, the extraction cache and the
// formatter together. The returned closer releases the cache.
func newAssembler(ctx context.Context, config *Config, log *zap.Logger) (*pipeline.Assembler, func() error, error) {
	generator, provider, err := newGenerator(ctx, config.AI, log)
	if err != nil {
		return nil, nil, fmt.Errorf("building ai generator: %w", err)
	}

	var store *cache.Storage
	if config.Cache.Path != "" {
		store, err = cache.New(config.Cache.Path)
	} else {
		store, err = cache.NewInMemory()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening extraction cache: %w", err)
	}

	aiLogger := logger.WithCommonFields(log, provider, generator.Model())

	extractor := ai.NewCachedExtractor(
		ai.NewExtractor(generator, aiLogger, config.AI.MaxLogLength),
		store,
		provider+"/"+generator.Model(),
		aiLogger,
	)
	formatter := ai.NewFormatter(generator, aiLogger, config.AI.MaxLogLength)

	return pipeline.New(extractor, formatter, config.AI.Timeout, log), store.Close, nil
}

// weightsFromConfig merges --weight overrides on top of the configured weights.
func weightsFromConfig(config *Config, overrides map[string]string) (matching.Weights, error) {
	weights := matching.Weights(config.Scoring.Weights)
	if len(weights) == 0 {
		weights = matching.DefaultWeights()
	}

	parsed := make(map[string]float64, len(overrides))
	for key, raw := range overrides {
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &matching.ConfigError{Message: fmt.Sprintf("weight %s: %q is not a number", key, raw)}
		}
		parsed[strings.TrimSpace(key)] = value
	}

	weights = weights.Merge(parsed)
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}

// newHeadhunter creates the hh.ru client. The token is optional unless
// requireToken is set.
func newHeadhunter(config *Config, requireToken bool, log *zap.Logger) (*headhunter.Client, error) {
	src := secrets.Source{Name: "headhunter token", File: config.Headhunter.TokenFile}

	load := secrets.LoadOptional
	if requireToken {
		load = secrets.Load
	}

	token, err := load(src)
	if err != nil {
		if errors.Is(err, secrets.ErrNotConfigured) {
			err = fmt.Errorf("%w (set HH_TOKEN_FILE or headhunter.token-file)", err)
		}
		return nil, fmt.Errorf("loading headhunter token: %w", err)
	}

	hh := headhunter.New(token, log)
	if config.Headhunter.UserAgent != "" {
		hh.UserAgent = config.Headhunter.UserAgent
	}
	return hh, nil
}
