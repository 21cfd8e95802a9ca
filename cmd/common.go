package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/results"
)

// setup builds the logger and decodes the config. Both are required by
// every command that talks to a model, so failures are fatal.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return l, config
}

func redacted(config *Config) Config {
	c := *config
	if c.AI != nil && c.AI.Gemini != nil && c.AI.Gemini.APIKey != "" {
		ai := *c.AI
		gem := *ai.Gemini
		gem.APIKey = "***"
		ai.Gemini = &gem
		c.AI = &ai
	}
	return c
}

func saveResult(config *Config, res *matching.MatchResult, log *zap.Logger) (string, error) {
	path, err := results.NewStore(config.Output.ResultsDir).Save(res)
	if err != nil {
		return "", fmt.Errorf("saving result: %w", err)
	}
	log.Info("result saved", zap.String("path", path))
	return path, nil
}
